package employee_dashboard

import "context"

// EmployeeDashboardService defines the interface for employee dashboard operations
type EmployeeDashboardService interface {
	// GetDashboard returns the profile summary and payslip panel for the
	// authenticated employee. Section failures degrade that section only.
	GetDashboard(ctx context.Context) (EmployeeDashboardResponse, error)
}
