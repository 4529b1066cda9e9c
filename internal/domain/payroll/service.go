package payroll

import "context"

type PayrollService interface {
	// Organization payroll table
	GetPayrollReport(ctx context.Context) (PayrollReportResponse, error)
	PreviewDeductions(ctx context.Context, req DeductionPreviewRequest) (DeductionPreviewResponse, error)

	// Self-service payslips for the authenticated employee
	GetMyPayslips(ctx context.Context) (PayslipHistoryResponse, error)
	GetMyPayslip(ctx context.Context, month string) (PayslipDetailResponse, error)
	RenderMyPayslipPDF(ctx context.Context, month string) (PayslipDocument, error)

	// HR views of one employee's history
	GetEmployeePayslips(ctx context.Context, employeeID string) (PayslipHistoryResponse, error)
	RegenerateEmployeePayslips(ctx context.Context, employeeID string) (PayslipHistoryResponse, error)
}
