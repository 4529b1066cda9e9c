package employee

import "context"

// EmployeeRepository is the read-only employee directory.
type EmployeeRepository interface {
	GetAll(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	ListDepartments(ctx context.Context) ([]Department, error)
	ListPositions(ctx context.Context) ([]Position, error)
}

// ProfileRepository loads profile extension data. GetByEmployeeIDs is a
// single batched request; ids without a profile are absent from the map.
type ProfileRepository interface {
	GetByEmployeeIDs(ctx context.Context, ids []string) (map[string]Profile, error)
	GetByEmployeeID(ctx context.Context, id string) (Profile, error)
}
