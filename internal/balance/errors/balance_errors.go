package balanceerrors

import (
	"fmt"
	"net/http"

	"hr-ledger/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeValidation,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeValidation,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrActorNotAuthorized = apperror.New(
		apperror.CodeForbidden,
		"acting user must have role ADMIN or MANAGER",
		http.StatusForbidden,
	)
	ErrInvalidYear = apperror.New(
		apperror.CodeValidation,
		"year must be a positive integer",
		http.StatusBadRequest,
	)
	ErrBulkInProgress = apperror.New(
		apperror.CodeConflict,
		"a bulk initialization for this year is already in progress",
		http.StatusConflict,
	)
	ErrStoreUnavailable = apperror.New(
		apperror.CodeStoreUnavailable,
		"balance store is temporarily unavailable, retry the operation",
		http.StatusServiceUnavailable,
	)
)

// NegativeField builds the validation error for a negative ledger input,
// naming the offending field so the UI can point at the right form input.
func NegativeField(field string) *apperror.AppError {
	return apperror.New(
		apperror.CodeValidation,
		fmt.Sprintf("%s must not be negative", field),
		http.StatusBadRequest,
	)
}

// BulkFailure is one employee that could not be processed during a bulk
// initialization.
type BulkFailure struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

// PartialFailureError reports a bulk initialization that committed some
// rows and failed others. It is never retried automatically; the operator
// decides whether to re-run for the failed subset.
type PartialFailureError struct {
	Processed int
	Failures  []BulkFailure
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("bulk initialize processed %d employees, %d failed", e.Processed, len(e.Failures))
}
