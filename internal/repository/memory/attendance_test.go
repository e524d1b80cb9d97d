package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedEmployee(t *testing.T, roster *EmployeeRepository, name string, status employee.Status) employee.Employee {
	t.Helper()
	emp, err := roster.Create(context.Background(), employee.Employee{
		Name:       name,
		Email:      name + "@hrms.com",
		Department: "Engineering",
		Role:       employee.RoleEmployee,
		Status:     status,
	})
	require.NoError(t, err)
	return emp
}

// Test concurrent check-ins for the same employee and day
func TestAttendanceRepository_UpsertCheckIn_ConcurrentSingleWinner(t *testing.T) {
	ctx := context.Background()
	roster := NewEmployeeRepository()
	repo := NewAttendanceRepository(roster)
	emp := seedEmployee(t, roster, "alice", employee.StatusActive)
	d := day(2024, 1, 2)

	const attempts = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.UpsertCheckIn(ctx, emp.ID, d, d.Add(9*time.Hour+time.Duration(i)*time.Second))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn) {
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	records, err := repo.QueryDay(ctx, d)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestAttendanceRepository_UpsertCheckIn_UnknownEmployee(t *testing.T) {
	repo := NewAttendanceRepository(NewEmployeeRepository())

	_, err := repo.UpsertCheckIn(context.Background(), "missing", day(2024, 1, 2), time.Now())

	assert.ErrorIs(t, err, attendance.ErrUnknownEmployee)
}

func TestAttendanceRepository_RecordCheckOut_Guards(t *testing.T) {
	ctx := context.Background()
	roster := NewEmployeeRepository()
	repo := NewAttendanceRepository(roster)
	emp := seedEmployee(t, roster, "bob", employee.StatusActive)
	d := day(2024, 1, 3)

	// On-leave record has no check-in
	leave, err := repo.MarkOnLeave(ctx, emp.ID, d)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusOnLeave, leave.Status)

	_, err = repo.RecordCheckOut(ctx, leave.ID, d.Add(17*time.Hour), 8)
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	// Checking in fills the same record
	in, err := repo.UpsertCheckIn(ctx, emp.ID, d, d.Add(9*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, leave.ID, in.ID)
	assert.Equal(t, attendance.StatusPresent, in.Status)

	out, err := repo.RecordCheckOut(ctx, in.ID, d.Add(17*time.Hour+30*time.Minute), 8.5)
	require.NoError(t, err)
	require.NotNil(t, out.WorkHours)
	assert.Equal(t, 8.5, *out.WorkHours)

	_, err = repo.RecordCheckOut(ctx, in.ID, d.Add(18*time.Hour), 9)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)

	stored, err := repo.FindForDay(ctx, emp.ID, d)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, 8.5, *stored.WorkHours, "work hours are written once")

	_, err = repo.RecordCheckOut(ctx, "missing", d, 1)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	_, err = repo.MarkOnLeave(ctx, emp.ID, d)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestAttendanceRepository_QueryRange_InclusiveAndDescending(t *testing.T) {
	ctx := context.Background()
	roster := NewEmployeeRepository()
	repo := NewAttendanceRepository(roster)
	e1 := seedEmployee(t, roster, "carol", employee.StatusActive)
	e2 := seedEmployee(t, roster, "dave", employee.StatusActive)

	for d := 1; d <= 6; d++ {
		_, err := repo.UpsertCheckIn(ctx, e1.ID, day(2024, 1, d), day(2024, 1, d).Add(9*time.Hour))
		require.NoError(t, err)
		_, err = repo.UpsertCheckIn(ctx, e2.ID, day(2024, 1, d), day(2024, 1, d).Add(8*time.Hour))
		require.NoError(t, err)
	}

	records, err := repo.QueryRange(ctx, day(2024, 1, 1), day(2024, 1, 5), &e1.ID)
	require.NoError(t, err)
	require.Len(t, records, 5)
	for i, rec := range records {
		assert.Equal(t, e1.ID, rec.EmployeeID)
		assert.Equal(t, day(2024, 1, 5-i), rec.Date)
		require.NotNil(t, rec.Employee)
		assert.Equal(t, "carol", rec.Employee.Name)
	}

	all, err := repo.QueryRange(ctx, day(2024, 1, 2), day(2024, 1, 2), nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, e2.ID, all[0].EmployeeID, "earlier check-in first within a day")
}

func TestAttendanceRepository_ListOpenBefore(t *testing.T) {
	ctx := context.Background()
	roster := NewEmployeeRepository()
	repo := NewAttendanceRepository(roster)
	emp := seedEmployee(t, roster, "erin", employee.StatusActive)

	open, err := repo.UpsertCheckIn(ctx, emp.ID, day(2024, 1, 1), day(2024, 1, 1).Add(22*time.Hour))
	require.NoError(t, err)
	closed, err := repo.UpsertCheckIn(ctx, emp.ID, day(2024, 1, 2), day(2024, 1, 2).Add(9*time.Hour))
	require.NoError(t, err)
	_, err = repo.RecordCheckOut(ctx, closed.ID, day(2024, 1, 2).Add(17*time.Hour), 8)
	require.NoError(t, err)
	_, err = repo.UpsertCheckIn(ctx, emp.ID, day(2024, 1, 3), day(2024, 1, 3).Add(9*time.Hour))
	require.NoError(t, err)

	records, err := repo.ListOpenBefore(ctx, day(2024, 1, 3))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, open.ID, records[0].ID)
}

func TestEmployeeRepository_ListAndCount(t *testing.T) {
	ctx := context.Background()
	roster := NewEmployeeRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	roster.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, name := range []string{"a", "b", "c"} {
		seedEmployee(t, roster, name, employee.StatusActive)
	}
	inactive := seedEmployee(t, roster, "d", employee.StatusInactive)

	_, err := roster.Create(ctx, employee.Employee{Name: "dup", Email: "A@hrms.com"})
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	count, err := roster.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	page, total, err := roster.List(ctx, employee.EmployeeFilter{Page: 1, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, page, 3)
	assert.Equal(t, inactive.ID, page[0].ID, "newest first")

	last, _, err := roster.List(ctx, employee.EmployeeFilter{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Len(t, last, 1)

	empty, _, err := roster.List(ctx, employee.EmployeeFilter{Page: 5, Limit: 3})
	require.NoError(t, err)
	assert.Empty(t, empty)
}
