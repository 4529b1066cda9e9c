package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	employeeRepo  employee.EmployeeRepository
	resolver      *DependentResolver
	engine        *DeductionEngine
	generator     *PayslipGenerator
	historyMonths int
	now           func() time.Time
}

func NewPayrollService(
	employeeRepo employee.EmployeeRepository,
	resolver *DependentResolver,
	engine *DeductionEngine,
	generator *PayslipGenerator,
	historyMonths int,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		employeeRepo:  employeeRepo,
		resolver:      resolver,
		engine:        engine,
		generator:     generator,
		historyMonths: historyMonths,
		now:           generator.now,
	}
}

// getEmployeeID extracts employee_id from JWT claims
func getEmployeeID(ctx context.Context) (string, error) {
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

func compensationOf(emp employee.Employee) payroll.EmployeeCompensation {
	return payroll.EmployeeCompensation{
		EmployeeID: emp.ID,
		BaseSalary: payroll.NormalizeAmount(emp.BaseSalary),
		Bonus:      payroll.NormalizeAmount(emp.Bonus),
		Penalty:    payroll.NormalizeAmount(emp.Deduction),
	}
}

// ========== PAYROLL REPORT ==========

// GetPayrollReport computes one breakdown per directory employee. Only a
// directory failure fails the report; dependent lookups degrade to zero.
func (s *PayrollServiceImpl) GetPayrollReport(ctx context.Context) (payroll.PayrollReportResponse, error) {
	employees, err := s.employeeRepo.GetAll(ctx)
	if err != nil {
		slog.Error("failed to load employee directory for payroll report", "error", err)
		return payroll.PayrollReportResponse{}, fmt.Errorf("%w: %w", payroll.ErrDirectoryUnavailable, err)
	}

	ids := make([]string, len(employees))
	for i, emp := range employees {
		ids[i] = emp.ID
	}
	// Dependents must be known before any breakdown is computed.
	resolution := s.resolver.Resolve(ctx, ids)

	rows := make([]payroll.PayrollReportRow, len(employees))
	totals := payroll.PayrollTotals{
		EmployeeCount:   len(employees),
		GrossPay:        decimal.Zero,
		InsuranceTotal:  decimal.Zero,
		IncomeTax:       decimal.Zero,
		TotalDeductions: decimal.Zero,
		NetPay:          decimal.Zero,
	}
	for i, emp := range employees {
		in := payroll.NewCompensationInput(emp.BaseSalary, emp.Bonus, emp.Deduction, resolution.Count(emp.ID))
		breakdown := s.engine.Compute(in)

		rows[i] = payroll.PayrollReportRow{
			EmployeeID:      emp.ID,
			EmployeeCode:    emp.EmployeeCode,
			FullName:        emp.FullName,
			DepartmentName:  emp.DepartmentName,
			PositionName:    emp.PositionName,
			BaseSalary:      in.BaseSalary,
			Bonus:           in.Bonus,
			Penalty:         in.Penalty,
			DependentCount:  in.DependentCount,
			DependentSource: resolution.Tier(emp.ID),
			Breakdown:       breakdown,
		}

		totals.GrossPay = totals.GrossPay.Add(breakdown.GrossPay)
		totals.InsuranceTotal = totals.InsuranceTotal.Add(breakdown.InsuranceTotal)
		totals.IncomeTax = totals.IncomeTax.Add(breakdown.IncomeTax)
		totals.TotalDeductions = totals.TotalDeductions.Add(breakdown.TotalDeductions)
		totals.NetPay = totals.NetPay.Add(breakdown.NetPay)
	}

	now := s.now()
	return payroll.PayrollReportResponse{
		Month:            payroll.MonthKey(now),
		Rows:             rows,
		Totals:           totals,
		DependentsStatus: resolution.Status,
		GeneratedAt:      now,
	}, nil
}

func (s *PayrollServiceImpl) PreviewDeductions(ctx context.Context, req payroll.DeductionPreviewRequest) (payroll.DeductionPreviewResponse, error) {
	in := req.ToInput()
	return payroll.DeductionPreviewResponse{
		Input:     in,
		Breakdown: s.engine.Compute(in),
	}, nil
}

// ========== SELF-SERVICE PAYSLIPS ==========

func (s *PayrollServiceImpl) GetMyPayslips(ctx context.Context) (payroll.PayslipHistoryResponse, error) {
	employeeID, err := getEmployeeID(ctx)
	if err != nil {
		return payroll.PayslipHistoryResponse{}, err
	}

	emp, history, err := s.loadHistory(ctx, employeeID, false)
	if err != nil {
		return payroll.PayslipHistoryResponse{}, err
	}
	return historyResponse(emp, history), nil
}

func (s *PayrollServiceImpl) GetMyPayslip(ctx context.Context, month string) (payroll.PayslipDetailResponse, error) {
	monthTime, err := payroll.ParseMonthKey(month)
	if err != nil {
		return payroll.PayslipDetailResponse{}, validator.ValidationErrors{
			{Field: "month", Message: "must be in YYYY-MM format"},
		}
	}

	employeeID, err := getEmployeeID(ctx)
	if err != nil {
		return payroll.PayslipDetailResponse{}, err
	}

	emp, history, err := s.loadHistory(ctx, employeeID, false)
	if err != nil {
		return payroll.PayslipDetailResponse{}, err
	}

	key := payroll.MonthKey(monthTime)
	for _, record := range history {
		if record.Month == key {
			return payroll.PayslipDetailResponse{
				EmployeeID:     emp.ID,
				EmployeeCode:   emp.EmployeeCode,
				EmployeeName:   emp.FullName,
				DepartmentName: emp.DepartmentName,
				PositionName:   emp.PositionName,
				Payslip:        record,
			}, nil
		}
	}
	return payroll.PayslipDetailResponse{}, payroll.ErrPayslipNotFound
}

func (s *PayrollServiceImpl) RenderMyPayslipPDF(ctx context.Context, month string) (payroll.PayslipDocument, error) {
	detail, err := s.GetMyPayslip(ctx, month)
	if err != nil {
		return payroll.PayslipDocument{}, err
	}

	content, err := renderPayslipPDF(detail)
	if err != nil {
		return payroll.PayslipDocument{}, err
	}

	return payroll.PayslipDocument{
		Filename:    payslipFilename(detail.EmployeeCode, detail.Payslip.Month),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

// ========== HR PAYSLIP VIEWS ==========

func (s *PayrollServiceImpl) GetEmployeePayslips(ctx context.Context, employeeID string) (payroll.PayslipHistoryResponse, error) {
	if !validator.IsValidUUID(employeeID) {
		return payroll.PayslipHistoryResponse{}, employee.ErrInvalidEmployeeID
	}

	emp, history, err := s.loadHistory(ctx, employeeID, false)
	if err != nil {
		return payroll.PayslipHistoryResponse{}, err
	}
	return historyResponse(emp, history), nil
}

func (s *PayrollServiceImpl) RegenerateEmployeePayslips(ctx context.Context, employeeID string) (payroll.PayslipHistoryResponse, error) {
	if !validator.IsValidUUID(employeeID) {
		return payroll.PayslipHistoryResponse{}, employee.ErrInvalidEmployeeID
	}

	emp, history, err := s.loadHistory(ctx, employeeID, true)
	if err != nil {
		return payroll.PayslipHistoryResponse{}, err
	}
	slog.Info("payslip history regenerated", "employee_id", emp.ID, "months", len(history))
	return historyResponse(emp, history), nil
}

func (s *PayrollServiceImpl) loadHistory(ctx context.Context, employeeID string, regenerate bool) (employee.Employee, []payroll.PayslipRecord, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, nil, err
		}
		return employee.Employee{}, nil, fmt.Errorf("%w: %w", payroll.ErrDirectoryUnavailable, err)
	}

	resolution := s.resolver.Resolve(ctx, []string{emp.ID})
	dependents := resolution.Count(emp.ID)

	var history []payroll.PayslipRecord
	if regenerate {
		history, err = s.generator.RegenerateHistory(ctx, compensationOf(emp), dependents, s.historyMonths)
	} else {
		history, err = s.generator.GetOrGenerateHistory(ctx, compensationOf(emp), dependents, s.historyMonths)
	}
	if err != nil {
		return employee.Employee{}, nil, fmt.Errorf("failed to load payslip history: %w", err)
	}
	return emp, history, nil
}

func historyResponse(emp employee.Employee, history []payroll.PayslipRecord) payroll.PayslipHistoryResponse {
	months := make([]string, len(history))
	for i, record := range history {
		months[i] = record.Month
	}
	return payroll.PayslipHistoryResponse{
		EmployeeID:   emp.ID,
		EmployeeCode: emp.EmployeeCode,
		EmployeeName: emp.FullName,
		Months:       months,
		Payslips:     history,
	}
}
