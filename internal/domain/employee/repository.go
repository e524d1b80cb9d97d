package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, employee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (Employee, error)
	SetStatus(ctx context.Context, id string, status Status) error

	// CountActive returns the active headcount
	CountActive(ctx context.Context) (int, error)
}
