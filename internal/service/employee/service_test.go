package employee

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hrms-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() (employee.EmployeeService, *memory.EmployeeRepository) {
	repo := memory.NewEmployeeRepository()
	clk := clock.NewMock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))
	return NewEmployeeService(repo, clk, bcrypt.MinCost, nil), repo
}

func strPtr(s string) *string { return &s }

// Test create hashes the password and defaults role and joining date
func TestEmployeeService_CreateEmployee_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, repo := newTestService()

	// Act
	resp, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{
		Name:       "  Jane Doe ",
		Email:      "Jane@HRMS.com",
		Department: "Finance",
		Password:   "secret123",
	})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Jane Doe", resp.Name)
	assert.Equal(t, "jane@hrms.com", resp.Email)
	assert.Equal(t, employee.RoleEmployee, resp.Role)
	assert.Equal(t, employee.StatusActive, resp.Status)
	assert.Equal(t, "2024-03-01", resp.DateOfJoining)

	stored, err := repo.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
}

func TestEmployeeService_CreateEmployee_ExplicitJoiningDate(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{
		Name:          "John",
		Email:         "john@hrms.com",
		Password:      "secret123",
		Role:          employee.RoleManager,
		DateOfJoining: strPtr("2023-07-15"),
	})

	require.NoError(t, err)
	assert.Equal(t, "2023-07-15", resp.DateOfJoining)
	assert.Equal(t, employee.RoleManager, resp.Role)
}

func TestEmployeeService_CreateEmployee_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	req := employee.CreateEmployeeRequest{Name: "A", Email: "dup@hrms.com", Password: "secret123"}

	_, err := svc.CreateEmployee(ctx, req)
	require.NoError(t, err)

	req.Email = "DUP@hrms.com"
	_, err = svc.CreateEmployee(ctx, req)
	assert.ErrorIs(t, err, employee.ErrEmailExists)
}

func TestEmployeeService_CreateEmployee_Validation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{
		Email:    "not-an-email",
		Password: "123",
		Role:     "OWNER",
	})

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	fields := validationErrs.ToMap()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "role")
}

func TestEmployeeService_GetEmployee_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetEmployee(context.Background(), "missing")

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

// Test pagination metadata
func TestEmployeeService_ListEmployees(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	for _, email := range []string{"a@hrms.com", "b@hrms.com", "c@hrms.com"} {
		_, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{Name: email, Email: email, Password: "secret123"})
		require.NoError(t, err)
	}

	page1, err := svc.ListEmployees(ctx, employee.EmployeeFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page1.TotalCount)
	assert.Equal(t, 1, page1.Page)
	assert.Equal(t, 2, page1.TotalPages)
	assert.Equal(t, "1-2 of 3", page1.Showing)
	assert.Len(t, page1.Employees, 2)

	page2, err := svc.ListEmployees(ctx, employee.EmployeeFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, "3-3 of 3", page2.Showing)
	assert.Len(t, page2.Employees, 1)

	beyond, err := svc.ListEmployees(ctx, employee.EmployeeFilter{Page: 9, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, "0 of 3", beyond.Showing)
	assert.Empty(t, beyond.Employees)

	_, err = svc.ListEmployees(ctx, employee.EmployeeFilter{Limit: 500})
	var validationErrs validator.ValidationErrors
	assert.ErrorAs(t, err, &validationErrs)
}

func TestEmployeeService_UpdateEmployee(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	created, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{Name: "Old", Email: "u@hrms.com", Password: "secret123"})
	require.NoError(t, err)

	role := employee.RoleManager
	updated, err := svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{
		ID:         created.ID,
		Name:       strPtr(" New "),
		Department: strPtr("Ops"),
		Role:       &role,
	})

	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "Ops", updated.Department)
	assert.Equal(t, employee.RoleManager, updated.Role)
	assert.Equal(t, created.Email, updated.Email)

	_, err = svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: "missing", Name: strPtr("x")})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

// Test delete marks the employee inactive and refuses self-deletion
func TestEmployeeService_DeleteEmployee(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	admin, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{Name: "Admin", Email: "admin@hrms.com", Password: "secret123", Role: employee.RoleAdmin})
	require.NoError(t, err)
	target, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{Name: "Target", Email: "t@hrms.com", Password: "secret123"})
	require.NoError(t, err)

	err = svc.DeleteEmployee(ctx, admin.ID, admin.ID)
	assert.ErrorIs(t, err, employee.ErrCannotDeleteSelf)

	require.NoError(t, svc.DeleteEmployee(ctx, target.ID, admin.ID))

	stored, err := repo.GetByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, employee.StatusInactive, stored.Status)

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = svc.DeleteEmployee(ctx, target.ID, admin.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeAlreadyInactive)

	err = svc.DeleteEmployee(ctx, "missing", admin.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

type recordingListener struct {
	calls int
	err   error
}

func (l *recordingListener) RosterChanged(ctx context.Context) error {
	l.calls++
	return l.err
}

// Test every committed roster change is announced
func TestEmployeeService_NotifiesRosterChanges(t *testing.T) {
	ctx := context.Background()
	listener := &recordingListener{}
	svc := NewEmployeeService(memory.NewEmployeeRepository(), clock.NewMock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)), bcrypt.MinCost, listener)

	created, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{Name: "Jane", Email: "jane@hrms.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, 1, listener.calls)

	_, err = svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{Name: "Jane", Email: "jane@hrms.com", Password: "secret123"})
	require.ErrorIs(t, err, employee.ErrEmailExists)
	assert.Equal(t, 1, listener.calls)

	_, err = svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: created.ID, Department: strPtr("Finance")})
	require.NoError(t, err)
	assert.Equal(t, 2, listener.calls)

	// A failing listener does not undo the change.
	listener.err = assert.AnError
	require.NoError(t, svc.DeleteEmployee(ctx, created.ID, "admin-id"))
	assert.Equal(t, 3, listener.calls)

	assert.ErrorIs(t, svc.DeleteEmployee(ctx, created.ID, "admin-id"), employee.ErrEmployeeAlreadyInactive)
	assert.Equal(t, 3, listener.calls)
}
