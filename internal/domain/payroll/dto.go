package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// ========== PAYROLL REPORT DTOs ==========

type PayrollReportRow struct {
	EmployeeID      string             `json:"employee_id"`
	EmployeeCode    string             `json:"employee_code"`
	FullName        string             `json:"full_name"`
	DepartmentName  *string            `json:"department_name,omitempty"`
	PositionName    *string            `json:"position_name,omitempty"`
	BaseSalary      decimal.Decimal    `json:"base_salary"`
	Bonus           decimal.Decimal    `json:"bonus"`
	Penalty         decimal.Decimal    `json:"penalty"`
	DependentCount  int                `json:"dependent_count"`
	DependentSource ResolutionTier     `json:"dependent_source"`
	Breakdown       DeductionBreakdown `json:"breakdown"`
}

type PayrollTotals struct {
	EmployeeCount   int             `json:"employee_count"`
	GrossPay        decimal.Decimal `json:"gross_pay"`
	InsuranceTotal  decimal.Decimal `json:"insurance_total"`
	IncomeTax       decimal.Decimal `json:"income_tax"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
}

type PayrollReportResponse struct {
	Month            string             `json:"month"`
	Rows             []PayrollReportRow `json:"rows"`
	Totals           PayrollTotals      `json:"totals"`
	DependentsStatus ResolutionStatus   `json:"dependents_status"`
	GeneratedAt      time.Time          `json:"generated_at"`
}

// ========== DEDUCTION PREVIEW DTOs ==========

// DeductionPreviewRequest accepts dirty input; every field normalizes
// instead of failing.
type DeductionPreviewRequest struct {
	BaseSalary     Amount `json:"base_salary"`
	Bonus          Amount `json:"bonus"`
	Penalty        Amount `json:"penalty"`
	DependentCount Count  `json:"dependent_count"`
}

func (r DeductionPreviewRequest) ToInput() CompensationInput {
	return NewCompensationInput(r.BaseSalary.Decimal, r.Bonus.Decimal, r.Penalty.Decimal, int(r.DependentCount))
}

type DeductionPreviewResponse struct {
	Input     CompensationInput  `json:"input"`
	Breakdown DeductionBreakdown `json:"breakdown"`
}

// ========== PAYSLIP DTOs ==========

type PayslipHistoryResponse struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeCode string          `json:"employee_code"`
	EmployeeName string          `json:"employee_name"`
	Months       []string        `json:"months"`
	Payslips     []PayslipRecord `json:"payslips"`
}

type PayslipDetailResponse struct {
	EmployeeID     string        `json:"employee_id"`
	EmployeeCode   string        `json:"employee_code"`
	EmployeeName   string        `json:"employee_name"`
	DepartmentName *string       `json:"department_name,omitempty"`
	PositionName   *string       `json:"position_name,omitempty"`
	Payslip        PayslipRecord `json:"payslip"`
}

// PayslipDocument is a rendered payslip ready for download.
type PayslipDocument struct {
	Filename    string
	ContentType string
	Content     []byte
}
