package attendance

import (
	"context"
)

// AttendanceService drives the per-day NoRecord -> CheckedIn -> CheckedOut state machine
type AttendanceService interface {
	// CheckIn records the first check-in of the current day
	CheckIn(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// CheckOut closes today's record and derives work hours
	CheckOut(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// GetTodayAttendance returns nil when the employee has not checked in today
	GetTodayAttendance(ctx context.Context, employeeID string) (*AttendanceResponse, error)

	// MarkOnLeave flags a day as on-leave for an employee (admin/manager)
	MarkOnLeave(ctx context.Context, req MarkOnLeaveRequest) (AttendanceResponse, error)

	// AuditOpenSessions reports how many earlier days are still checked in
	AuditOpenSessions(ctx context.Context) (int, error)
}
