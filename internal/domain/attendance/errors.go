package attendance

import "errors"

// Attendance domain errors
var (
	// State machine errors
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrNotCheckedIn      = errors.New("you must check in first")
	ErrAlreadyCheckedOut = errors.New("you have already checked out today")

	// Storage errors
	ErrStorageUnavailable = errors.New("attendance storage is unavailable")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrEmployeeIDRequired = errors.New("employee id is required")
	ErrUnknownEmployee    = errors.New("employee does not exist")
)
