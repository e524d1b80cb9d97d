package attendance

import (
	"time"
)

type Status string

const (
	StatusAbsent  Status = "absent"
	StatusPresent Status = "present"
	StatusOnLeave Status = "on-leave"
)

// Attendance is the single record an employee owns for one calendar day.
type Attendance struct {
	ID           string
	EmployeeID   string
	Date         time.Time
	CheckInTime  *time.Time
	CheckOutTime *time.Time
	WorkHours    *float64
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Joined from the roster, nil when the store does not join.
	Employee *EmployeeSummary
}

// EmployeeSummary carries the roster display fields joined into reports.
type EmployeeSummary struct {
	ID          string
	Name        string
	Email       string
	Designation string
	Department  string
	Active      bool
}

func (a Attendance) IsCheckedIn() bool {
	return a.CheckInTime != nil
}

func (a Attendance) IsCheckedOut() bool {
	return a.CheckOutTime != nil
}
