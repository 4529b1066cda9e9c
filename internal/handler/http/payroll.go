package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
	"github.com/cmlabs-hris/hrm-payroll/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// maxPreviewBodyBytes bounds the deduction preview request body.
const maxPreviewBodyBytes = 1 << 16

type PayrollHandler interface {
	// Organization report
	GetPayrollReport(w http.ResponseWriter, r *http.Request)
	PreviewDeductions(w http.ResponseWriter, r *http.Request)

	// Self-service payslips
	GetMyPayslips(w http.ResponseWriter, r *http.Request)
	GetMyPayslip(w http.ResponseWriter, r *http.Request)
	DownloadMyPayslipPDF(w http.ResponseWriter, r *http.Request)

	// HR payslip views
	GetEmployeePayslips(w http.ResponseWriter, r *http.Request)
	RegenerateEmployeePayslips(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== REPORT ==========

func (h *payrollHandlerImpl) GetPayrollReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetPayrollReport(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: int64(result.Totals.EmployeeCount)})
}

// PreviewDeductions handles POST /payroll/deductions/preview
// Amounts may be numbers or numeric strings; invalid values count as zero.
func (h *payrollHandlerImpl) PreviewDeductions(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPreviewBodyBytes)

	var req payroll.DeductionPreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.BadRequest(w, "Request body too large", nil)
			return
		}
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.PreviewDeductions(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== SELF-SERVICE ==========

func (h *payrollHandlerImpl) GetMyPayslips(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetMyPayslips(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMyPayslip handles GET /my-payslips/{month}
// month: YYYY-MM
func (h *payrollHandlerImpl) GetMyPayslip(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")

	result, err := h.payrollService.GetMyPayslip(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) DownloadMyPayslipPDF(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")

	doc, err := h.payrollService.RenderMyPayslipPDF(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, doc.Filename, doc.ContentType, doc.Content)
}

// ========== HR VIEWS ==========

func (h *payrollHandlerImpl) GetEmployeePayslips(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.payrollService.GetEmployeePayslips(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) RegenerateEmployeePayslips(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.payrollService.RegenerateEmployeePayslips(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip history regenerated", result)
}
