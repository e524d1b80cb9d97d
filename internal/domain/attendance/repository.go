package attendance

import (
	"context"
	"time"
)

// AttendanceRepository stores at most one record per (employee, calendar day).
// Every day argument is expected to be a midnight produced by clock.StartOfDay.
type AttendanceRepository interface {
	// FindForDay returns nil, nil when the employee has no record for day
	FindForDay(ctx context.Context, employeeID string, day time.Time) (*Attendance, error)

	// UpsertCheckIn creates the day's record or fills in its check-in.
	// Returns ErrAlreadyCheckedIn when the record is already checked in.
	UpsertCheckIn(ctx context.Context, employeeID string, day time.Time, checkInTime time.Time) (Attendance, error)

	// RecordCheckOut sets the check-out and work hours exactly once
	RecordCheckOut(ctx context.Context, recordID string, checkOutTime time.Time, workHours float64) (Attendance, error)

	// MarkOnLeave creates or flags the day's record as on-leave if no check-in exists
	MarkOnLeave(ctx context.Context, employeeID string, day time.Time) (Attendance, error)

	// QueryRange returns records in [startDay, endDay] ordered by date descending,
	// with employee display fields joined
	QueryRange(ctx context.Context, startDay, endDay time.Time, employeeID *string) ([]Attendance, error)

	// QueryDay returns every record of day with employee display fields joined
	QueryDay(ctx context.Context, day time.Time) ([]Attendance, error)

	// ListOpenBefore returns checked-in records without a check-out dated before day
	ListOpenBefore(ctx context.Context, day time.Time) ([]Attendance, error)
}

// RosterReader is the read-only view of the employee roster.
type RosterReader interface {
	CountActive(ctx context.Context) (int, error)
}
