package employee

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/employee"
)

type DirectoryServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewDirectoryService(employeeRepo employee.EmployeeRepository) employee.DirectoryService {
	return &DirectoryServiceImpl{employeeRepo: employeeRepo}
}

func (s *DirectoryServiceImpl) ListDepartments(ctx context.Context) ([]employee.DepartmentResponse, error) {
	departments, err := s.employeeRepo.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	result := make([]employee.DepartmentResponse, len(departments))
	for i, d := range departments {
		result[i] = employee.DepartmentResponse{
			ID:            d.ID,
			Name:          d.Name,
			EmployeeCount: d.EmployeeCount,
		}
	}
	return result, nil
}

func (s *DirectoryServiceImpl) ListPositions(ctx context.Context) ([]employee.PositionResponse, error) {
	positions, err := s.employeeRepo.ListPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	result := make([]employee.PositionResponse, len(positions))
	for i, p := range positions {
		result[i] = employee.PositionResponse{
			ID:           p.ID,
			Name:         p.Name,
			DepartmentID: p.DepartmentID,
		}
	}
	return result, nil
}
