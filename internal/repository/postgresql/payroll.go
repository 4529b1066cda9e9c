package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll/internal/pkg/database"
)

type payrollLedgerRepository struct {
	db *database.DB
}

func NewPayrollLedgerRepository(db *database.DB) payroll.LedgerRepository {
	return &payrollLedgerRepository{db: db}
}

// GetEntries returns the recorded entries for the requested months, keyed by
// month ("YYYY-MM"). Months without a row are absent from the map.
func (r *payrollLedgerRepository) GetEntries(ctx context.Context, employeeID string, months []string) (map[string]payroll.LedgerEntry, error) {
	entries := make(map[string]payroll.LedgerEntry, len(months))
	if len(months) == 0 {
		return entries, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT month, bonus, penalty, working_days
		FROM payroll_ledger_entries
		WHERE employee_id = $1 AND month = ANY($2)
	`

	rows, err := q.Query(ctx, query, employeeID, months)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e payroll.LedgerEntry
		if err := rows.Scan(&e.Month, &e.Bonus, &e.Penalty, &e.WorkingDays); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries[e.Month] = e
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
