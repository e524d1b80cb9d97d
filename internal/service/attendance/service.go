package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var msPerHour = decimal.NewFromInt(int64(time.Hour / time.Millisecond))

// WorkHours returns the hours between checkIn and checkOut rounded to two decimals.
func WorkHours(checkIn, checkOut time.Time) float64 {
	ms := decimal.NewFromInt(checkOut.Sub(checkIn).Milliseconds())
	hours, _ := ms.Div(msPerHour).Round(2).Float64()
	return hours
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	clock     clock.Clock
	publisher attendance.EventPublisher
}

// NewAttendanceService wires the state machine. publisher may be nil.
func NewAttendanceService(repo attendance.AttendanceRepository, clk clock.Clock, publisher attendance.EventPublisher) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: repo,
		clock:                clk,
		publisher:            publisher,
	}
}

func (s *AttendanceServiceImpl) publish(ctx context.Context, eventType attendance.EventType, rec attendance.Attendance) {
	if s.publisher == nil {
		return
	}
	event := attendance.Event{
		Type:       eventType,
		EmployeeID: rec.EmployeeID,
		Date:       rec.Date.Format(attendance.DateLayout),
		OccurredAt: s.clock.Now(),
		Record:     attendance.NewAttendanceResponse(rec),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.Warn("failed to publish attendance event", "type", eventType, "employee_id", rec.EmployeeID, "error", err)
	}
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	if validator.IsEmpty(employeeID) {
		return attendance.AttendanceResponse{}, attendance.ErrEmployeeIDRequired
	}

	now := s.clock.Now()
	day := clock.StartOfDay(now)

	rec, err := s.UpsertCheckIn(ctx, employeeID, day, now)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check in: %w", err)
	}

	slog.Info("employee checked in", "employee_id", employeeID, "date", day.Format(attendance.DateLayout))
	s.publish(ctx, attendance.EventCheckedIn, rec)

	return attendance.NewAttendanceResponse(rec), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	if validator.IsEmpty(employeeID) {
		return attendance.AttendanceResponse{}, attendance.ErrEmployeeIDRequired
	}

	now := s.clock.Now()
	day := clock.StartOfDay(now)

	existing, err := s.FindForDay(ctx, employeeID, day)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing == nil || !existing.IsCheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if existing.IsCheckedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	hours := WorkHours(*existing.CheckInTime, now)

	rec, err := s.RecordCheckOut(ctx, existing.ID, now, hours)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedOut) || errors.Is(err, attendance.ErrNotCheckedIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check out: %w", err)
	}

	slog.Info("employee checked out", "employee_id", employeeID, "date", day.Format(attendance.DateLayout), "work_hours", hours)
	s.publish(ctx, attendance.EventCheckedOut, rec)

	return attendance.NewAttendanceResponse(rec), nil
}

// GetTodayAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetTodayAttendance(ctx context.Context, employeeID string) (*attendance.AttendanceResponse, error) {
	if validator.IsEmpty(employeeID) {
		return nil, attendance.ErrEmployeeIDRequired
	}

	rec, err := s.FindForDay(ctx, employeeID, s.clock.Today())
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if rec == nil {
		return nil, nil
	}

	resp := attendance.NewAttendanceResponse(*rec)
	return &resp, nil
}

// MarkOnLeave implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkOnLeave(ctx context.Context, req attendance.MarkOnLeaveRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	day, err := clock.ParseDay(req.Date, s.clock.Location())
	if err != nil {
		return attendance.AttendanceResponse{}, validator.ValidationErrors{{Field: "date", Message: "date must be in YYYY-MM-DD format"}}
	}

	rec, err := s.AttendanceRepository.MarkOnLeave(ctx, req.EmployeeID, day)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) || errors.Is(err, attendance.ErrUnknownEmployee) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to mark on leave: %w", err)
	}

	slog.Info("attendance marked on leave", "employee_id", req.EmployeeID, "date", req.Date)
	s.publish(ctx, attendance.EventOnLeave, rec)

	return attendance.NewAttendanceResponse(rec), nil
}

// AuditOpenSessions logs records from earlier days that were never checked out.
// Those sessions stay open; nothing is reconciled.
func (s *AttendanceServiceImpl) AuditOpenSessions(ctx context.Context) (int, error) {
	records, err := s.ListOpenBefore(ctx, s.clock.Today())
	if err != nil {
		return 0, fmt.Errorf("failed to list open attendances: %w", err)
	}
	for _, rec := range records {
		slog.Warn("attendance left open",
			"attendance_id", rec.ID,
			"employee_id", rec.EmployeeID,
			"date", rec.Date.Format(attendance.DateLayout),
		)
	}
	return len(records), nil
}
