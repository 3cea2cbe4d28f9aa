package attendance

import (
	"time"
)

const (
	RecordStatusPresent = "Present"
	RecordStatusOut     = "Out"
)

// Attendance is one user's record for one calendar day.
type Attendance struct {
	ID        string
	UserID    string
	Date      time.Time
	CheckIn   time.Time
	CheckOut  *time.Time
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	UserName  *string
	UserEmail *string
}

// RecordStatus derives the stored status from the check-out state.
func (a *Attendance) RecordStatus() string {
	if a.CheckOut != nil {
		return RecordStatusOut
	}
	return RecordStatusPresent
}

// UserSummary is one row of the monthly attendance summary.
type UserSummary struct {
	UserID           string
	UserName         string
	UserEmail        string
	DaysPresent      int
	DaysOnLeave      int
	TotalWorkingDays int
}
