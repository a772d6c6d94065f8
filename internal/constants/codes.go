package constants

// Error codes used in API responses.
// These are the machine-readable codes returned in the "error" field.
const (
	// Common error codes
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternalError  = "INTERNAL_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeRateLimited    = "RATE_LIMITED"

	// Shortener-specific codes
	CodeInvalidURL        = "INVALID_URL"
	CodeInvalidCustomCode = "INVALID_CUSTOM_CODE"
	CodeTaken             = "CODE_ALREADY_TAKEN"
	CodeSpaceExhausted    = "CODE_SPACE_EXHAUSTED"
	CodeURLNotFound       = "URL_NOT_FOUND"

	// Success codes
	CodeURLCreated     = "URL_CREATED"
	CodeURLFound       = "URL_FOUND"
	CodeURLsListed     = "URLS_LISTED"
	CodeAnalyticsFound = "ANALYTICS_FOUND"
)
