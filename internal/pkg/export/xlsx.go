package export

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

const AttendanceSheet = "Attendance"

var attendanceHeader = []interface{}{
	"Date", "Employee ID", "Name", "Email", "Department", "Designation",
	"Status", "Check In", "Check Out", "Work Hours",
}

// WriteAttendanceXLSX writes rows as a single-sheet workbook in the order given.
func WriteAttendanceXLSX(w io.Writer, rows []attendance.AttendanceResponse) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), AttendanceSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(AttendanceSheet, "A1", &attendanceHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.Date, r.EmployeeID, "", "", "", "",
			string(r.Status), deref(r.CheckInTime), deref(r.CheckOutTime), "",
		}
		if r.Employee != nil {
			row[2] = r.Employee.Name
			row[3] = r.Employee.Email
			row[4] = r.Employee.Department
			row[5] = r.Employee.Designation
		}
		if r.WorkHours != nil {
			row[9] = *r.WorkHours
		}
		if err := f.SetSheetRow(AttendanceSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(AttendanceSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	_, err := f.WriteTo(w)
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
