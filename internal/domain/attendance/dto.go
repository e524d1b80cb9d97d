package attendance

import (
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/validator"
)

const DateLayout = "2006-01-02"

type AttendanceResponse struct {
	ID           string                   `json:"id"`
	EmployeeID   string                   `json:"employee_id"`
	Date         string                   `json:"date"`
	CheckInTime  *string                  `json:"check_in_time"`
	CheckOutTime *string                  `json:"check_out_time"`
	WorkHours    *float64                 `json:"work_hours"`
	Status       Status                   `json:"status"`
	Employee     *EmployeeSummaryResponse `json:"employee,omitempty"`
	CreatedAt    string                   `json:"created_at"`
	UpdatedAt    string                   `json:"updated_at"`
}

type EmployeeSummaryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Designation string `json:"designation,omitempty"`
	Department  string `json:"department"`
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// NewAttendanceResponse maps a stored record to its JSON shape.
func NewAttendanceResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		Date:         a.Date.Format(DateLayout),
		CheckInTime:  timePtrToString(a.CheckInTime),
		CheckOutTime: timePtrToString(a.CheckOutTime),
		WorkHours:    a.WorkHours,
		Status:       a.Status,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.Format(time.RFC3339),
	}
	if a.Employee != nil {
		resp.Employee = &EmployeeSummaryResponse{
			ID:          a.Employee.ID,
			Name:        a.Employee.Name,
			Email:       a.Employee.Email,
			Designation: a.Employee.Designation,
			Department:  a.Employee.Department,
		}
	}
	return resp
}

func NewAttendanceResponses(records []Attendance) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(records))
	for _, r := range records {
		out = append(out, NewAttendanceResponse(r))
	}
	return out
}

type MarkOnLeaveRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
}

func (r *MarkOnLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
