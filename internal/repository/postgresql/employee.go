package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeSelect = `
	SELECT e.id, e.employee_code, e.full_name, e.department_id, e.position_id,
		e.employment_status, e.base_salary, e.bonus, e.deduction, e.hire_date,
		e.created_at, e.updated_at, d.name, p.name
	FROM employees e
	LEFT JOIN departments d ON d.id = e.department_id
	LEFT JOIN positions p ON p.id = e.position_id
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.DepartmentID, &emp.PositionID,
		&emp.EmploymentStatus, &emp.BaseSalary, &emp.Bonus, &emp.Deduction, &emp.HireDate,
		&emp.CreatedAt, &emp.UpdatedAt, &emp.DepartmentName, &emp.PositionName,
	)
	return emp, err
}

// GetAll implements employee.EmployeeRepository. Only active, non-deleted
// employees are part of the payroll directory.
func (e *employeeRepositoryImpl) GetAll(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := employeeSelect + `
		WHERE e.employment_status = $1 AND e.deleted_at IS NULL
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, employee.EmploymentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := employeeSelect + `
		WHERE e.id = $1 AND e.deleted_at IS NULL
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}

	return emp, nil
}

// ListDepartments implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListDepartments(ctx context.Context) ([]employee.Department, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT d.id, d.name, COUNT(e.id)
		FROM departments d
		LEFT JOIN employees e ON e.department_id = d.id
			AND e.employment_status = $1 AND e.deleted_at IS NULL
		GROUP BY d.id, d.name
		ORDER BY d.name
	`

	rows, err := q.Query(ctx, query, employee.EmploymentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query departments: %w", err)
	}
	defer rows.Close()

	departments := []employee.Department{}
	for rows.Next() {
		var d employee.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.EmployeeCount); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return departments, nil
}

// ListPositions implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListPositions(ctx context.Context) ([]employee.Position, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT id, name, department_id
		FROM positions
		ORDER BY name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	positions := []employee.Position{}
	for rows.Next() {
		var p employee.Position
		if err := rows.Scan(&p.ID, &p.Name, &p.DepartmentID); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return positions, nil
}
