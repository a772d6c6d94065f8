package constants

// Error messages used in API responses.
// These are the human-readable messages returned in the "message" field.
const (
	// Common messages
	MsgInvalidRequestBody = "Invalid request body"
	MsgInternalError      = "An internal error occurred"
	MsgUnauthorized       = "Unauthorized"
	MsgRateLimited        = "Rate limit exceeded"

	// Shortener-specific messages
	MsgInvalidURL        = "Invalid URL (must be an absolute http or https URL)"
	MsgInvalidCustomCode = "Invalid custom code"
	MsgCodeTaken         = "Custom code already exists"
	MsgSpaceExhausted    = "Could not allocate a unique short code"
	MsgURLNotFound       = "Short URL not found"
)
