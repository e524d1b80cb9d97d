package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

var _ attendance.AttendanceRepository = (*AttendanceRepository)(nil)

type dayKey struct {
	employeeID string
	day        string
}

// AttendanceRepository keeps records in memory. The (employee, day) index is
// only mutated under mu, which gives the same create-if-absent guarantee as
// the PostgreSQL unique constraint.
type AttendanceRepository struct {
	mu      sync.RWMutex
	byID    map[string]*attendance.Attendance
	byDay   map[dayKey]string
	roster  *EmployeeRepository
	now     func() time.Time
	checkFK bool
}

// NewAttendanceRepository joins employee display fields from roster. When
// roster is nil, records carry no employee summary and employee ids are not checked.
func NewAttendanceRepository(roster *EmployeeRepository) *AttendanceRepository {
	return &AttendanceRepository{
		byID:    make(map[string]*attendance.Attendance),
		byDay:   make(map[dayKey]string),
		roster:  roster,
		now:     time.Now,
		checkFK: roster != nil,
	}
}

func keyOf(employeeID string, day time.Time) dayKey {
	return dayKey{employeeID: employeeID, day: day.Format(attendance.DateLayout)}
}

// snapshot copies a stored record so callers never alias internal state.
func (r *AttendanceRepository) snapshot(rec *attendance.Attendance) attendance.Attendance {
	out := *rec
	if rec.CheckInTime != nil {
		t := *rec.CheckInTime
		out.CheckInTime = &t
	}
	if rec.CheckOutTime != nil {
		t := *rec.CheckOutTime
		out.CheckOutTime = &t
	}
	if rec.WorkHours != nil {
		h := *rec.WorkHours
		out.WorkHours = &h
	}
	if r.roster != nil {
		if summary, ok := r.roster.summary(rec.EmployeeID); ok {
			out.Employee = summary
		}
	}
	return out
}

func (r *AttendanceRepository) knownEmployee(employeeID string) bool {
	if !r.checkFK {
		return true
	}
	_, ok := r.roster.summary(employeeID)
	return ok
}

func (r *AttendanceRepository) FindForDay(ctx context.Context, employeeID string, day time.Time) (*attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byDay[keyOf(employeeID, day)]
	if !ok {
		return nil, nil
	}
	rec := r.snapshot(r.byID[id])
	return &rec, nil
}

// getOrCreate must be called with mu held for writing.
func (r *AttendanceRepository) getOrCreate(employeeID string, day time.Time) *attendance.Attendance {
	key := keyOf(employeeID, day)
	if id, ok := r.byDay[key]; ok {
		return r.byID[id]
	}
	now := r.now()
	rec := &attendance.Attendance{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Date:       day,
		Status:     attendance.StatusAbsent,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.byID[rec.ID] = rec
	r.byDay[key] = rec.ID
	return rec
}

func (r *AttendanceRepository) UpsertCheckIn(ctx context.Context, employeeID string, day time.Time, checkInTime time.Time) (attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Attendance{}, err
	}
	if !r.knownEmployee(employeeID) {
		return attendance.Attendance{}, attendance.ErrUnknownEmployee
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byDay[keyOf(employeeID, day)]; ok && r.byID[id].CheckInTime != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}

	rec := r.getOrCreate(employeeID, day)
	t := checkInTime
	rec.CheckInTime = &t
	rec.Status = attendance.StatusPresent
	rec.UpdatedAt = r.now()
	return r.snapshot(rec), nil
}

func (r *AttendanceRepository) RecordCheckOut(ctx context.Context, recordID string, checkOutTime time.Time, workHours float64) (attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Attendance{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[recordID]
	switch {
	case !ok:
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	case rec.CheckOutTime != nil:
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	case rec.CheckInTime == nil:
		return attendance.Attendance{}, attendance.ErrNotCheckedIn
	}

	t := checkOutTime
	h := workHours
	rec.CheckOutTime = &t
	rec.WorkHours = &h
	rec.UpdatedAt = r.now()
	return r.snapshot(rec), nil
}

func (r *AttendanceRepository) MarkOnLeave(ctx context.Context, employeeID string, day time.Time) (attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Attendance{}, err
	}
	if !r.knownEmployee(employeeID) {
		return attendance.Attendance{}, attendance.ErrUnknownEmployee
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byDay[keyOf(employeeID, day)]; ok && r.byID[id].CheckInTime != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}

	rec := r.getOrCreate(employeeID, day)
	rec.Status = attendance.StatusOnLeave
	rec.UpdatedAt = r.now()
	return r.snapshot(rec), nil
}

func (r *AttendanceRepository) collect(match func(*attendance.Attendance) bool) []attendance.Attendance {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]attendance.Attendance, 0)
	for _, rec := range r.byID {
		if match(rec) {
			out = append(out, r.snapshot(rec))
		}
	}
	return out
}

func byCheckIn(records []attendance.Attendance, i, j int) bool {
	a, b := records[i].CheckInTime, records[j].CheckInTime
	switch {
	case a == nil && b == nil:
		return records[i].ID < records[j].ID
	case a == nil:
		return false
	case b == nil:
		return true
	case a.Equal(*b):
		return records[i].ID < records[j].ID
	}
	return a.Before(*b)
}

func (r *AttendanceRepository) QueryRange(ctx context.Context, startDay, endDay time.Time, employeeID *string) ([]attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	from := startDay.Format(attendance.DateLayout)
	to := endDay.Format(attendance.DateLayout)

	records := r.collect(func(rec *attendance.Attendance) bool {
		d := rec.Date.Format(attendance.DateLayout)
		if d < from || d > to {
			return false
		}
		return employeeID == nil || rec.EmployeeID == *employeeID
	})

	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.After(records[j].Date)
		}
		return byCheckIn(records, i, j)
	})
	return records, nil
}

func (r *AttendanceRepository) QueryDay(ctx context.Context, day time.Time) ([]attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target := day.Format(attendance.DateLayout)

	records := r.collect(func(rec *attendance.Attendance) bool {
		return rec.Date.Format(attendance.DateLayout) == target
	})
	sort.Slice(records, func(i, j int) bool { return byCheckIn(records, i, j) })
	return records, nil
}

func (r *AttendanceRepository) ListOpenBefore(ctx context.Context, day time.Time) ([]attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cutoff := day.Format(attendance.DateLayout)

	records := r.collect(func(rec *attendance.Attendance) bool {
		return rec.Date.Format(attendance.DateLayout) < cutoff && rec.CheckInTime != nil && rec.CheckOutTime == nil
	})
	sort.Slice(records, func(i, j int) bool { return records[i].Date.After(records[j].Date) })
	return records, nil
}
