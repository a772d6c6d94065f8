package constants

import "net/http"

// APISuccess represents a standardized API success response with code and HTTP status.
// Use these predefined success constants for consistent API responses across the application.
type APISuccess struct {
	Code   string
	Status int
}

// URL-related success responses
var (
	SuccessURLCreated = APISuccess{
		Code:   CodeURLCreated,
		Status: http.StatusCreated,
	}
	SuccessURLFound = APISuccess{
		Code:   CodeURLFound,
		Status: http.StatusOK,
	}
	SuccessURLsListed = APISuccess{
		Code:   CodeURLsListed,
		Status: http.StatusOK,
	}
	SuccessAnalyticsFound = APISuccess{
		Code:   CodeAnalyticsFound,
		Status: http.StatusOK,
	}
)
