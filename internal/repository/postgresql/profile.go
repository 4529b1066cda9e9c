package postgresql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type profileRepositoryImpl struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) employee.ProfileRepository {
	return &profileRepositoryImpl{db: db}
}

const profileSelect = `
	SELECT employee_id, dependents, bank_name, bank_account_number, updated_at
	FROM employee_profiles
`

func scanProfile(row pgx.Row) (employee.Profile, error) {
	var (
		p                 employee.Profile
		dependentsJSON    []byte
		bankName          *string
		bankAccountNumber *string
	)
	if err := row.Scan(&p.EmployeeID, &dependentsJSON, &bankName, &bankAccountNumber, &p.UpdatedAt); err != nil {
		return employee.Profile{}, err
	}

	dependents, err := employee.DecodeDependents(dependentsJSON)
	if err != nil {
		slog.Warn("Ignoring malformed dependents", "employee_id", p.EmployeeID, "error", err)
	}
	p.Dependents = dependents
	if bankName != nil {
		p.BankName = *bankName
	}
	if bankAccountNumber != nil {
		p.BankAccountNumber = *bankAccountNumber
	}
	return p, nil
}

// GetByEmployeeIDs implements employee.ProfileRepository as one query.
func (r *profileRepositoryImpl) GetByEmployeeIDs(ctx context.Context, ids []string) (map[string]employee.Profile, error) {
	profiles := make(map[string]employee.Profile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, profileSelect+` WHERE employee_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query employee profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee profile: %w", err)
		}
		profiles[p.EmployeeID] = p
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// GetByEmployeeID implements employee.ProfileRepository.
func (r *profileRepositoryImpl) GetByEmployeeID(ctx context.Context, id string) (employee.Profile, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanProfile(q.QueryRow(ctx, profileSelect+` WHERE employee_id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Profile{}, employee.ErrProfileNotFound
		}
		return employee.Profile{}, fmt.Errorf("failed to get profile for employee %s: %w", id, err)
	}

	return p, nil
}
