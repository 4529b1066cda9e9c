package payroll

import (
	"context"
	"time"
)

// PayslipHistoryCache stores one payslip history per employee id.
// Get returns ErrPayslipHistoryNotCached for absent, empty or unreadable
// entries. SetIfAbsent reports whether records were stored; an existing
// history is never overwritten.
type PayslipHistoryCache interface {
	Get(ctx context.Context, employeeID string) ([]PayslipRecord, error)
	SetIfAbsent(ctx context.Context, employeeID string, records []PayslipRecord) (bool, error)
	Delete(ctx context.Context, employeeID string) error
}

// MonthlyLedger supplies the month-specific bonus, penalty and working
// days. Entries are returned in the order of months.
type MonthlyLedger interface {
	Entries(ctx context.Context, seed EmployeeCompensation, months []time.Time) ([]LedgerEntry, error)
}

// LedgerRepository reads recorded monthly payroll entries keyed by YYYY-MM.
type LedgerRepository interface {
	GetEntries(ctx context.Context, employeeID string, months []string) (map[string]LedgerEntry, error)
}
