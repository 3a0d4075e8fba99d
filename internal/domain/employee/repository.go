package employee

import "context"

// Repository is the read-only view of the externally-owned employee
// directory, used to resolve names and compute "not clocked in" sets.
type Repository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
}
