package handlers

// API error codes returned in operator responses { "error": "...", "code": "..." }
// for stable client handling. Public responses carry only "error"; that wire
// contract predates this service and is pinned.
const (
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeConflict       = "conflict"
	ErrCodeForbidden      = "forbidden"
	ErrCodeExecution      = "execution_error"
	ErrCodeInternal       = "internal_error"
)
