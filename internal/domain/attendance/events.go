package attendance

import (
	"context"
	"time"
)

type EventType string

const (
	EventCheckedIn  EventType = "attendance.checked_in"
	EventCheckedOut EventType = "attendance.checked_out"
	EventOnLeave    EventType = "attendance.on_leave"
)

// Event is emitted after a successful attendance mutation.
type Event struct {
	Type       EventType          `json:"type"`
	EmployeeID string             `json:"employee_id"`
	Date       string             `json:"date"`
	OccurredAt time.Time          `json:"occurred_at"`
	Record     AttendanceResponse `json:"record"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
