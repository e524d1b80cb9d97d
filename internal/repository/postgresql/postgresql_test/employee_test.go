package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrms-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRepository_CreateAndGet(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)

	created, err := repo.Create(ctx, employee.Employee{
		Name:          "Jane Doe",
		Email:         "jane@hrms.com",
		Phone:         "+1234567890",
		Designation:   "Team Lead",
		Department:    "Engineering",
		Role:          employee.RoleManager,
		Status:        employee.StatusActive,
		DateOfJoining: day(2025, 6, 1),
		PasswordHash:  "hash",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@hrms.com", byID.Email)
	assert.Equal(t, employee.RoleManager, byID.Role)
	assert.Equal(t, "hash", byID.PasswordHash)

	byEmail, err := repo.GetByEmail(ctx, "jane@hrms.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.Create(ctx, employee.Employee{
		Name:          "Jane Again",
		Email:         "jane@hrms.com",
		Role:          employee.RoleEmployee,
		Status:        employee.StatusActive,
		DateOfJoining: day(2025, 6, 1),
		PasswordHash:  "hash",
	})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	_, err = repo.GetByID(ctx, "bogus")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	_, err = repo.GetByEmail(ctx, "nobody@hrms.com")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeRepository_List(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)

	for _, name := range []string{"a", "b", "c"} {
		createEmployee(t, repo, name)
	}

	page, total, err := repo.List(ctx, employee.EmployeeFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	page, total, err = repo.List(ctx, employee.EmployeeFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 1)
}

func TestEmployeeRepository_UpdateAndStatus(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(setup.DB)
	emp := createEmployee(t, repo, "mover")
	createEmployee(t, repo, "stayer")

	name := "Moved"
	role := employee.RoleManager
	updated, err := repo.Update(ctx, emp.ID, employee.UpdateEmployeeRequest{Name: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Moved", updated.Name)
	assert.Equal(t, employee.RoleManager, updated.Role)
	assert.Equal(t, "Engineering", updated.Department)

	unchanged, err := repo.Update(ctx, emp.ID, employee.UpdateEmployeeRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Moved", unchanged.Name)

	_, err = repo.Update(ctx, "00000000-0000-0000-0000-000000000000", employee.UpdateEmployeeRequest{Name: &name})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.SetStatus(ctx, emp.ID, employee.StatusInactive))
	count, err = repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.ErrorIs(t, repo.SetStatus(ctx, "00000000-0000-0000-0000-000000000000", employee.StatusInactive), employee.ErrEmployeeNotFound)
	assert.ErrorIs(t, repo.SetStatus(ctx, "bogus", employee.StatusInactive), employee.ErrEmployeeNotFound)
}
