package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db  *database.DB
	loc *time.Location
}

// NewAttendanceRepository returns the PostgreSQL store. DATE columns are read
// back as midnight in loc.
func NewAttendanceRepository(db *database.DB, loc *time.Location) attendance.AttendanceRepository {
	if loc == nil {
		loc = time.Local
	}
	return &attendanceRepository{db: db, loc: loc}
}

// selectAttendance expects the attendance row aliased as "a".
const selectAttendance = `
	SELECT
		a.id, a.employee_id, a.date, a.check_in_time, a.check_out_time,
		a.work_hours, a.status, a.created_at, a.updated_at,
		e.id, e.name, e.email, e.designation, e.department, e.status
`

func dayParam(day time.Time) string {
	return day.Format(attendance.DateLayout)
}

func (a *attendanceRepository) scan(row pgx.Row) (attendance.Attendance, error) {
	var (
		att       attendance.Attendance
		status    string
		empID     *string
		empName   *string
		empEmail  *string
		empDesig  *string
		empDept   *string
		empStatus *string
	)
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.CheckInTime, &att.CheckOutTime,
		&att.WorkHours, &status, &att.CreatedAt, &att.UpdatedAt,
		&empID, &empName, &empEmail, &empDesig, &empDept, &empStatus,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}

	y, m, d := att.Date.Date()
	att.Date = time.Date(y, m, d, 0, 0, 0, 0, a.loc)
	att.Status = attendance.Status(status)
	if att.CheckInTime != nil {
		t := att.CheckInTime.In(a.loc)
		att.CheckInTime = &t
	}
	if att.CheckOutTime != nil {
		t := att.CheckOutTime.In(a.loc)
		att.CheckOutTime = &t
	}

	if empID != nil {
		att.Employee = &attendance.EmployeeSummary{
			ID:          *empID,
			Name:        deref(empName),
			Email:       deref(empEmail),
			Designation: deref(empDesig),
			Department:  deref(empDept),
			Active:      deref(empStatus) == "ACTIVE",
		}
	}
	return att, nil
}

func (a *attendanceRepository) scanAll(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		att, err := a.scan(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, att)
	}
	return records, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// FindForDay implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindForDay(ctx context.Context, employeeID string, day time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := selectAttendance + `
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1 AND a.date = $2::date
	`

	att, err := a.scan(q.QueryRow(ctx, query, employeeID, dayParam(day)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if pgErrorCode(err) == pgInvalidText {
			return nil, nil
		}
		return nil, storageError("get attendance for day", err)
	}

	return &att, nil
}

// UpsertCheckIn implements attendance.AttendanceRepository.
// The ON CONFLICT ... WHERE clause only fires for a record without a check-in,
// so a concurrent second check-in gets no row back.
func (a *attendanceRepository) UpsertCheckIn(ctx context.Context, employeeID string, day time.Time, checkInTime time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		WITH upserted AS (
			INSERT INTO attendances (employee_id, date, check_in_time, status)
			VALUES ($1, $2::date, $3, $4)
			ON CONFLICT (employee_id, date) DO UPDATE
				SET check_in_time = EXCLUDED.check_in_time,
					status = EXCLUDED.status,
					updated_at = NOW()
				WHERE attendances.check_in_time IS NULL
			RETURNING *
		)
	` + selectAttendance + `
		FROM upserted a
		LEFT JOIN employees e ON e.id = a.employee_id
	`

	att, err := a.scan(q.QueryRow(ctx, query, employeeID, dayParam(day), checkInTime, string(attendance.StatusPresent)))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		case pgErrorCode(err) == pgUniqueViolation:
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		case pgErrorCode(err) == pgForeignKeyViolation, pgErrorCode(err) == pgInvalidText:
			return attendance.Attendance{}, attendance.ErrUnknownEmployee
		}
		return attendance.Attendance{}, storageError("upsert check-in", err)
	}

	return att, nil
}

// RecordCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) RecordCheckOut(ctx context.Context, recordID string, checkOutTime time.Time, workHours float64) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		WITH updated AS (
			UPDATE attendances
			SET check_out_time = $2, work_hours = $3, updated_at = NOW()
			WHERE id = $1
			  AND check_in_time IS NOT NULL
			  AND check_out_time IS NULL
			RETURNING *
		)
	` + selectAttendance + `
		FROM updated a
		LEFT JOIN employees e ON e.id = a.employee_id
	`

	att, err := a.scan(q.QueryRow(ctx, query, recordID, checkOutTime, workHours))
	if err == nil {
		return att, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		if pgErrorCode(err) == pgInvalidText {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, storageError("record check-out", err)
	}

	// Nothing matched the guarded update, find out which guard failed.
	var checkedIn, checkedOut bool
	err = q.QueryRow(ctx, `
		SELECT check_in_time IS NOT NULL, check_out_time IS NOT NULL
		FROM attendances
		WHERE id = $1
	`, recordID).Scan(&checkedIn, &checkedOut)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	case err != nil:
		return attendance.Attendance{}, storageError("inspect attendance", err)
	case checkedOut:
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	case !checkedIn:
		return attendance.Attendance{}, attendance.ErrNotCheckedIn
	}
	return attendance.Attendance{}, fmt.Errorf("record check-out: attendance %s changed concurrently", recordID)
}

// MarkOnLeave implements attendance.AttendanceRepository.
func (a *attendanceRepository) MarkOnLeave(ctx context.Context, employeeID string, day time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		WITH upserted AS (
			INSERT INTO attendances (employee_id, date, status)
			VALUES ($1, $2::date, $3)
			ON CONFLICT (employee_id, date) DO UPDATE
				SET status = EXCLUDED.status, updated_at = NOW()
				WHERE attendances.check_in_time IS NULL
			RETURNING *
		)
	` + selectAttendance + `
		FROM upserted a
		LEFT JOIN employees e ON e.id = a.employee_id
	`

	att, err := a.scan(q.QueryRow(ctx, query, employeeID, dayParam(day), string(attendance.StatusOnLeave)))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		case pgErrorCode(err) == pgForeignKeyViolation, pgErrorCode(err) == pgInvalidText:
			return attendance.Attendance{}, attendance.ErrUnknownEmployee
		}
		return attendance.Attendance{}, storageError("mark on leave", err)
	}

	return att, nil
}

// QueryRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) QueryRange(ctx context.Context, startDay, endDay time.Time, employeeID *string) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := selectAttendance + `
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.date BETWEEN $1::date AND $2::date
	`
	args := []interface{}{dayParam(startDay), dayParam(endDay)}
	if employeeID != nil {
		query += " AND a.employee_id = $3"
		args = append(args, *employeeID)
	}
	query += " ORDER BY a.date DESC, a.check_in_time ASC NULLS LAST, a.id"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		if pgErrorCode(err) == pgInvalidText {
			return []attendance.Attendance{}, nil
		}
		return nil, storageError("query attendance range", err)
	}

	records, err := a.scanAll(rows)
	if err != nil {
		// A malformed employee id matches nothing.
		if pgErrorCode(err) == pgInvalidText {
			return []attendance.Attendance{}, nil
		}
		return nil, storageError("scan attendance range", err)
	}
	return records, nil
}

// QueryDay implements attendance.AttendanceRepository.
func (a *attendanceRepository) QueryDay(ctx context.Context, day time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := selectAttendance + `
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.date = $1::date
		ORDER BY a.check_in_time ASC NULLS LAST, a.id
	`

	rows, err := q.Query(ctx, query, dayParam(day))
	if err != nil {
		return nil, storageError("query attendance day", err)
	}

	records, err := a.scanAll(rows)
	if err != nil {
		return nil, storageError("scan attendance day", err)
	}
	return records, nil
}

// ListOpenBefore implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpenBefore(ctx context.Context, day time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := selectAttendance + `
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.date < $1::date
		  AND a.check_in_time IS NOT NULL
		  AND a.check_out_time IS NULL
		ORDER BY a.date DESC
		LIMIT 500
	`

	rows, err := q.Query(ctx, query, dayParam(day))
	if err != nil {
		return nil, storageError("list open attendances", err)
	}

	records, err := a.scanAll(rows)
	if err != nil {
		return nil, storageError("scan open attendances", err)
	}
	return records, nil
}
