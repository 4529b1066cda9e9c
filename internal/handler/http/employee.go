package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll/internal/handler/http/response"
)

type DirectoryHandler interface {
	ListDepartments(w http.ResponseWriter, r *http.Request)
	ListPositions(w http.ResponseWriter, r *http.Request)
}

type directoryHandlerImpl struct {
	directoryService employee.DirectoryService
}

func NewDirectoryHandler(directoryService employee.DirectoryService) DirectoryHandler {
	return &directoryHandlerImpl{directoryService: directoryService}
}

func (h *directoryHandlerImpl) ListDepartments(w http.ResponseWriter, r *http.Request) {
	result, err := h.directoryService.ListDepartments(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: int64(len(result))})
}

func (h *directoryHandlerImpl) ListPositions(w http.ResponseWriter, r *http.Request) {
	result, err := h.directoryService.ListPositions(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: int64(len(result))})
}
