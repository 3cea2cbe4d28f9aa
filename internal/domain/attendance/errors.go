package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in / check-out errors
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrNotCheckedIn      = errors.New("no check-in found for today")
	ErrAlreadyCheckedOut = errors.New("already checked out today")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidRecordID    = errors.New("invalid record id")
	ErrInvalidCheckIn     = errors.New("invalid check-in date")
	ErrInvalidCheckOut    = errors.New("invalid check-out date")
	ErrUnsupportedFormat  = errors.New("unsupported export format")
)
