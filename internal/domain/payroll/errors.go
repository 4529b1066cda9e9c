package payroll

import "errors"

var (
	ErrPayslipNotFound          = errors.New("payslip not found for this month")
	ErrPayslipHistoryNotCached  = errors.New("payslip history not cached")
	ErrDirectoryUnavailable     = errors.New("employee directory unavailable")
	ErrInvalidMonth             = errors.New("invalid month, expected YYYY-MM")
	ErrInvalidMonthCount        = errors.New("month count must be positive")
	ErrEmployeeContextMissing   = errors.New("employee_id not found in claims")
	ErrLedgerEntriesUnavailable = errors.New("monthly ledger entries unavailable")
)
