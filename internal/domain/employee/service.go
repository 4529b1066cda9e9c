package employee

import "context"

// DirectoryService exposes the read-only department and position lists.
type DirectoryService interface {
	ListDepartments(ctx context.Context) ([]DepartmentResponse, error)
	ListPositions(ctx context.Context) ([]PositionResponse, error)
}
