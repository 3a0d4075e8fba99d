package memory

import (
	"context"
	"sync"

	"github.com/workpulse-hq/attendance-backend-go/internal/domain/employee"
)

type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
	order     []string
}

func NewEmployeeRepository(seed ...employee.Employee) *EmployeeRepository {
	r := &EmployeeRepository{employees: make(map[string]employee.Employee)}
	for _, emp := range seed {
		r.employees[emp.ID] = emp
		r.order = append(r.order, emp.ID)
	}
	return r
}

// GetByID implements employee.Repository.
func (r *EmployeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

// ListActive implements employee.Repository.
func (r *EmployeeRepository) ListActive(_ context.Context) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []employee.Employee
	for _, id := range r.order {
		if emp := r.employees[id]; emp.IsActive {
			active = append(active, emp)
		}
	}
	return active, nil
}
