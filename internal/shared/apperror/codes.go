package apperror

const (
	// Client errors (4xx)
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"

	// Bulk operations that only partially succeeded (207)
	CodePartialFailure = "PARTIAL_FAILURE"

	// Server errors (5xx)
	CodeInternalError    = "INTERNAL_ERROR"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
)
