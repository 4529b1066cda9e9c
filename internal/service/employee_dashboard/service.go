package employee_dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/employee"
	empDashboard "github.com/cmlabs-hris/hrm-payroll/internal/domain/employee_dashboard"
	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/sync/errgroup"
)

type EmployeeDashboardServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	profileRepo    employee.ProfileRepository
	payrollService payroll.PayrollService
}

func NewEmployeeDashboardService(
	employeeRepo employee.EmployeeRepository,
	profileRepo employee.ProfileRepository,
	payrollService payroll.PayrollService,
) empDashboard.EmployeeDashboardService {
	return &EmployeeDashboardServiceImpl{
		employeeRepo:   employeeRepo,
		profileRepo:    profileRepo,
		payrollService: payrollService,
	}
}

// getEmployeeID extracts employee_id from JWT claims
func (s *EmployeeDashboardServiceImpl) getEmployeeID(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", payroll.ErrEmployeeContextMissing
	}
	return employeeID, nil
}

// maskAccountNumber keeps the last four characters visible.
func maskAccountNumber(number string) string {
	number = strings.TrimSpace(number)
	if number == "" {
		return ""
	}
	if len(number) <= 4 {
		return strings.Repeat("*", len(number))
	}
	return "****" + number[len(number)-4:]
}

// GetDashboard loads both sections concurrently. Neither section returns an
// error into the group, so one failing never cancels the other.
func (s *EmployeeDashboardServiceImpl) GetDashboard(ctx context.Context) (empDashboard.EmployeeDashboardResponse, error) {
	employeeID, err := s.getEmployeeID(ctx)
	if err != nil {
		return empDashboard.EmployeeDashboardResponse{}, err
	}

	var (
		profile  empDashboard.ProfileSummaryResponse
		payslips empDashboard.PayslipPanelResponse
	)

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Profile summary
	g.Go(func() error {
		profile = s.buildProfileSummary(gCtx, employeeID)
		return nil
	})

	// 2. Payslip panel
	g.Go(func() error {
		payslips = s.buildPayslipPanel(gCtx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return empDashboard.EmployeeDashboardResponse{}, err
	}

	return empDashboard.EmployeeDashboardResponse{
		Profile:  profile,
		Payslips: payslips,
	}, nil
}

func (s *EmployeeDashboardServiceImpl) buildProfileSummary(ctx context.Context, employeeID string) empDashboard.ProfileSummaryResponse {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		slog.Warn("dashboard profile section unavailable", "employee_id", employeeID, "error", err)
		return empDashboard.ProfileSummaryResponse{}
	}

	summary := empDashboard.ProfileSummaryResponse{
		EmployeeID:       emp.ID,
		EmployeeCode:     emp.EmployeeCode,
		FullName:         emp.FullName,
		DepartmentName:   emp.DepartmentName,
		PositionName:     emp.PositionName,
		EmploymentStatus: string(emp.EmploymentStatus),
	}
	if !emp.HireDate.IsZero() {
		hireDate := emp.HireDate
		summary.HireDate = &hireDate
	}

	profile, err := s.profileRepo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if !errors.Is(err, employee.ErrProfileNotFound) {
			slog.Warn("dashboard profile extension unavailable", "employee_id", employeeID, "error", err)
		}
		return summary
	}

	summary.DependentCount = profile.DependentCount()
	summary.BankName = profile.BankName
	summary.BankAccountMasked = maskAccountNumber(profile.BankAccountNumber)
	return summary
}

func (s *EmployeeDashboardServiceImpl) buildPayslipPanel(ctx context.Context) empDashboard.PayslipPanelResponse {
	history, err := s.payrollService.GetMyPayslips(ctx)
	if err != nil || len(history.Payslips) == 0 {
		if err != nil {
			slog.Warn("dashboard payslip panel unavailable", "error", err)
		}
		return empDashboard.PayslipPanelResponse{Available: false, Months: []string{}}
	}

	// Histories are ordered most recent month first.
	latest := history.Payslips[0]
	return empDashboard.PayslipPanelResponse{
		Available: true,
		Months:    history.Months,
		Latest:    &latest,
	}
}
