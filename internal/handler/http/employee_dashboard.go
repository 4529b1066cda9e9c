package http

import (
	"net/http"

	empDashboard "github.com/cmlabs-hris/hrm-payroll/internal/domain/employee_dashboard"
	"github.com/cmlabs-hris/hrm-payroll/internal/handler/http/response"
)

type EmployeeDashboardHandler interface {
	// GetDashboard returns combined employee dashboard data
	GetDashboard(w http.ResponseWriter, r *http.Request)
}

type employeeDashboardHandlerImpl struct {
	service empDashboard.EmployeeDashboardService
}

func NewEmployeeDashboardHandler(service empDashboard.EmployeeDashboardService) EmployeeDashboardHandler {
	return &employeeDashboardHandlerImpl{service: service}
}

// GetDashboard handles GET /my-dashboard
// Returns the profile summary and the latest payslip panel
func (h *employeeDashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetDashboard(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
