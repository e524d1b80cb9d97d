package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/google/uuid"
)

var (
	_ employee.EmployeeRepository = (*EmployeeRepository)(nil)
	_ attendance.RosterReader     = (*EmployeeRepository)(nil)
)

// EmployeeRepository is a process-local roster.
type EmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
	now       func() time.Time
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{
		employees: make(map[string]employee.Employee),
		now:       time.Now,
	}
}

func (r *EmployeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(newEmployee.Email)
	for _, emp := range r.employees {
		if emp.Email == email {
			return employee.Employee{}, employee.ErrEmailExists
		}
	}

	now := r.now()
	if newEmployee.ID == "" {
		newEmployee.ID = uuid.NewString()
	}
	newEmployee.Email = email
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now
	r.employees[newEmployee.ID] = newEmployee
	return newEmployee, nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(email)
	for _, emp := range r.employees {
		if emp.Email == email {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *EmployeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]employee.Employee, 0, len(r.employees))
	for _, emp := range r.employees {
		all = append(all, emp)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := int64(len(all))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(all) {
		return []employee.Employee{}, total, nil
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.Phone != nil {
		emp.Phone = *req.Phone
	}
	if req.Designation != nil {
		emp.Designation = *req.Designation
	}
	if req.Department != nil {
		emp.Department = *req.Department
	}
	if req.Role != nil {
		emp.Role = *req.Role
	}
	emp.UpdatedAt = r.now()
	r.employees[id] = emp
	return emp, nil
}

func (r *EmployeeRepository) SetStatus(ctx context.Context, id string, status employee.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	emp, ok := r.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	emp.Status = status
	emp.UpdatedAt = r.now()
	r.employees[id] = emp
	return nil
}

func (r *EmployeeRepository) CountActive(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, emp := range r.employees {
		if emp.IsActive() {
			count++
		}
	}
	return count, nil
}

// summary returns the display fields joined into attendance records.
func (r *EmployeeRepository) summary(id string) (*attendance.EmployeeSummary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.employees[id]
	if !ok {
		return nil, false
	}
	return &attendance.EmployeeSummary{
		ID:          emp.ID,
		Name:        emp.Name,
		Email:       emp.Email,
		Designation: emp.Designation,
		Department:  emp.Department,
		Active:      emp.IsActive(),
	}, true
}
