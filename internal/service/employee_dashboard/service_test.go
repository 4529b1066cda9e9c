package employee_dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEmployeeID = "0190a3c2-1111-7000-8000-00000000a11c"

var errUnavailable = errors.New("unavailable")

type stubEmployeeRepo struct {
	emp employee.Employee
	err error
}

func (s *stubEmployeeRepo) GetAll(ctx context.Context) ([]employee.Employee, error) {
	return []employee.Employee{s.emp}, s.err
}

func (s *stubEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if s.err != nil {
		return employee.Employee{}, s.err
	}
	if id != s.emp.ID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return s.emp, nil
}

func (s *stubEmployeeRepo) ListDepartments(ctx context.Context) ([]employee.Department, error) {
	return nil, nil
}

func (s *stubEmployeeRepo) ListPositions(ctx context.Context) ([]employee.Position, error) {
	return nil, nil
}

type stubProfileRepo struct {
	profile employee.Profile
	err     error
}

func (s *stubProfileRepo) GetByEmployeeIDs(ctx context.Context, ids []string) (map[string]employee.Profile, error) {
	return map[string]employee.Profile{s.profile.EmployeeID: s.profile}, s.err
}

func (s *stubProfileRepo) GetByEmployeeID(ctx context.Context, id string) (employee.Profile, error) {
	if s.err != nil {
		return employee.Profile{}, s.err
	}
	return s.profile, nil
}

// stubPayrollService only implements the call the dashboard makes.
type stubPayrollService struct {
	payroll.PayrollService
	history payroll.PayslipHistoryResponse
	err     error
}

func (s *stubPayrollService) GetMyPayslips(ctx context.Context) (payroll.PayslipHistoryResponse, error) {
	return s.history, s.err
}

func employeeContext(t *testing.T, employeeID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret-key-for-jwt"), nil)
	token, _, err := ja.Encode(map[string]interface{}{"employee_id": employeeID, "type": "access"})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func testEmployee() employee.Employee {
	department := "Finance"
	return employee.Employee{
		ID:               testEmployeeID,
		EmployeeCode:     "2024-0001",
		FullName:         "Alice Nguyen",
		DepartmentName:   &department,
		EmploymentStatus: employee.EmploymentStatusActive,
		HireDate:         time.Date(2022, time.July, 1, 0, 0, 0, 0, time.UTC),
	}
}

func testHistory() payroll.PayslipHistoryResponse {
	return payroll.PayslipHistoryResponse{
		EmployeeID: testEmployeeID,
		Months:     []string{"2026-03", "2026-02"},
		Payslips: []payroll.PayslipRecord{
			{EmployeeID: testEmployeeID, Month: "2026-03", BaseSalary: decimal.NewFromInt(30_000_000)},
			{EmployeeID: testEmployeeID, Month: "2026-02", BaseSalary: decimal.NewFromInt(30_000_000)},
		},
	}
}

func TestGetDashboard_Success(t *testing.T) {
	t.Parallel()

	// Arrange
	svc := NewEmployeeDashboardService(
		&stubEmployeeRepo{emp: testEmployee()},
		&stubProfileRepo{profile: employee.Profile{
			EmployeeID:        testEmployeeID,
			Dependents:        []employee.Dependent{{Name: "Minh", Relationship: "child"}},
			BankName:          "Vietcombank",
			BankAccountNumber: "0011223344",
		}},
		&stubPayrollService{history: testHistory()},
	)

	// Act
	result, err := svc.GetDashboard(employeeContext(t, testEmployeeID))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Alice Nguyen", result.Profile.FullName)
	assert.Equal(t, 1, result.Profile.DependentCount)
	assert.Equal(t, "****3344", result.Profile.BankAccountMasked)
	require.NotNil(t, result.Profile.HireDate)
	assert.True(t, result.Payslips.Available)
	assert.Equal(t, []string{"2026-03", "2026-02"}, result.Payslips.Months)
	require.NotNil(t, result.Payslips.Latest)
	assert.Equal(t, "2026-03", result.Payslips.Latest.Month)
}

func TestGetDashboard_PayslipFailureDegradesPanel(t *testing.T) {
	t.Parallel()

	svc := NewEmployeeDashboardService(
		&stubEmployeeRepo{emp: testEmployee()},
		&stubProfileRepo{err: employee.ErrProfileNotFound},
		&stubPayrollService{err: payroll.ErrDirectoryUnavailable},
	)

	result, err := svc.GetDashboard(employeeContext(t, testEmployeeID))

	require.NoError(t, err)
	assert.False(t, result.Payslips.Available)
	assert.Empty(t, result.Payslips.Months)
	assert.Nil(t, result.Payslips.Latest)
	assert.Equal(t, "Alice Nguyen", result.Profile.FullName)
	assert.Zero(t, result.Profile.DependentCount)
}

func TestGetDashboard_ProfileFailureYieldsEmptySection(t *testing.T) {
	t.Parallel()

	svc := NewEmployeeDashboardService(
		&stubEmployeeRepo{err: errUnavailable},
		&stubProfileRepo{err: errUnavailable},
		&stubPayrollService{history: testHistory()},
	)

	result, err := svc.GetDashboard(employeeContext(t, testEmployeeID))

	require.NoError(t, err)
	assert.Empty(t, result.Profile.EmployeeID)
	assert.True(t, result.Payslips.Available)
}

func TestGetDashboard_MissingEmployeeClaim(t *testing.T) {
	t.Parallel()

	svc := NewEmployeeDashboardService(&stubEmployeeRepo{}, &stubProfileRepo{}, &stubPayrollService{})

	_, err := svc.GetDashboard(employeeContext(t, ""))

	assert.ErrorIs(t, err, payroll.ErrEmployeeContextMissing)
}

func TestMaskAccountNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"empty", "", ""},
		{"short", "123", "***"},
		{"long", "9876543210", "****3210"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, maskAccountNumber(tt.input))
		})
	}
}
