package leave

import (
	"time"
)

type Type string

const (
	TypeCasual    Type = "casual"
	TypeSick      Type = "sick"
	TypeEmergency Type = "emergency"
	TypeOther     Type = "other"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Leave entity
type Leave struct {
	ID         string
	UserID     string
	Type       Type
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
	Status     Status
	ReviewedBy *string
	ReviewedAt *time.Time
	AdminNote  string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	UserName  *string
	UserEmail *string
}

// Days counts calendar days between start and end, both inclusive
func (l *Leave) Days() int {
	return DaysBetween(l.StartDate, l.EndDate)
}

// IsPending checks if the request still awaits review
func (l *Leave) IsPending() bool {
	return l.Status == StatusPending
}

// DaysBetween counts calendar days from start to end inclusive. Only the dates
// matter, so a 23 or 25 hour day across a DST change still counts once.
func DaysBetween(start, end time.Time) int {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	days := int(to.Sub(from).Hours()/24) + 1
	if days < 0 {
		return 0
	}
	return days
}

// OverlapDays counts the days of the leave falling inside [from, to]
func (l *Leave) OverlapDays(from, to time.Time) int {
	start := l.StartDate
	if start.Before(from) {
		start = from
	}
	end := l.EndDate
	if end.After(to) {
		end = to
	}
	if end.Before(start) {
		return 0
	}
	return DaysBetween(start, end)
}
