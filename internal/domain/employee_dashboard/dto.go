package employee_dashboard

import (
	"time"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
)

// EmployeeDashboardResponse is the combined response for the ESS dashboard
type EmployeeDashboardResponse struct {
	Profile  ProfileSummaryResponse `json:"profile"`
	Payslips PayslipPanelResponse   `json:"payslips"`
}

// ========== PROFILE SUMMARY ==========

// ProfileSummaryResponse is left zero-valued when the directory lookup fails.
type ProfileSummaryResponse struct {
	EmployeeID        string     `json:"employee_id,omitempty"`
	EmployeeCode      string     `json:"employee_code,omitempty"`
	FullName          string     `json:"full_name,omitempty"`
	DepartmentName    *string    `json:"department_name,omitempty"`
	PositionName      *string    `json:"position_name,omitempty"`
	EmploymentStatus  string     `json:"employment_status,omitempty"`
	HireDate          *time.Time `json:"hire_date,omitempty"`
	DependentCount    int        `json:"dependent_count"`
	BankName          string     `json:"bank_name,omitempty"`
	BankAccountMasked string     `json:"bank_account_masked,omitempty"` // Format: "****1234"
}

// ========== PAYSLIP PANEL ==========

// PayslipPanelResponse shows the latest payslip. Available is false when the
// history could not be produced; clients render a "no data" placeholder.
type PayslipPanelResponse struct {
	Available bool                   `json:"available"`
	Months    []string               `json:"months"`
	Latest    *payroll.PayslipRecord `json:"latest,omitempty"`
}
