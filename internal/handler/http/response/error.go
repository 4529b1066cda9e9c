package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll/internal/domain/user"
	"github.com/cmlabs-hris/hrm-payroll/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fail(w, http.StatusUnprocessableEntity, ErrorDetail{Code: "VALIDATION_ERROR", Message: "Validation failed", Details: validationErrs.ToMap()})
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		fail(w, http.StatusNotFound, ErrorDetail{Code: "NOT_FOUND", Message: "Employee not found"})
	case errors.Is(err, employee.ErrInvalidEmployeeID):
		BadRequest(w, "Invalid employee id", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrEmployeeContextMissing):
		Forbidden(w, "No employee record is linked to this account")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		fail(w, http.StatusNotFound, ErrorDetail{Code: "NOT_FOUND", Message: "Payslip not found for this month"})
	case errors.Is(err, payroll.ErrInvalidMonth):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrDirectoryUnavailable):
		serviceUnavailable(w, "Employee directory is unavailable, please retry")
	case errors.Is(err, payroll.ErrLedgerEntriesUnavailable):
		serviceUnavailable(w, "Payroll ledger is unavailable, please retry")

	// Default
	default:
		fail(w, http.StatusInternalServerError, ErrorDetail{Code: "INTERNAL_SERVER_ERROR", Message: "An unexpected error occurred"})
	}
}
