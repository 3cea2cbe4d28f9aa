package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create inserts a new record; a second record for the same user and day fails with ErrAlreadyCheckedIn
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves a record with its user joined
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByUserAndDate retrieves the record of a user for a calendar day, nil when none exists
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// Update persists check-in, check-out and status of an existing record
	Update(ctx context.Context, attendance Attendance) error

	// ListByUser returns the newest records of one user
	ListByUser(ctx context.Context, userID string, limit int) ([]Attendance, error)

	// ListByDate returns every record of a calendar day ordered by check-in
	ListByDate(ctx context.Context, date time.Time, openOnly bool) ([]Attendance, error)

	// List returns records matching the admin filter, newest day first
	List(ctx context.Context, filter RecordFilter) ([]Attendance, error)

	// CountDaysPresent counts records per user between two days inclusive
	CountDaysPresent(ctx context.Context, from, to time.Time) (map[string]int, error)
}
