package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreateLeaveRequest struct {
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`

	// Parsed by Validate
	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

// Validate checks the request and parses its dates as calendar days in loc
func (r *CreateLeaveRequest) Validate(loc *time.Location) error {
	var errs validator.ValidationErrors

	r.Reason = strings.TrimSpace(r.Reason)
	if r.Type == "" {
		r.Type = string(TypeCasual)
	}
	validTypes := []string{string(TypeCasual), string(TypeSick), string(TypeEmergency), string(TypeOther)}
	if !validator.IsInSlice(r.Type, validTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: casual, sick, emergency, other",
		})
	}

	startOK, endOK := false, false
	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if r.Start, startOK = validator.ParseDay(r.StartDate, loc); !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	} else if r.End, endOK = validator.ParseDay(r.EndDate, loc); !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && r.End.Before(r.Start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end date must be on or after start date",
		})
	}

	if len(r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveFilter struct {
	Status *string `json:"status,omitempty"`
	Limit  int     `json:"limit"`
}

func (f *LeaveFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil {
		validStatuses := []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: pending, approved, rejected",
			})
		}
	}

	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 500
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type ReviewLeaveRequest struct {
	ID        string `json:"-"`
	Action    string `json:"action"`
	AdminNote string `json:"admin_note"`
}

func (r *ReviewLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		return ErrInvalidLeaveID
	}

	if !validator.IsInSlice(r.Action, []string{ActionApprove, ActionReject}) {
		errs = append(errs, validator.ValidationError{
			Field:   "action",
			Message: "action must be 'approve' or 'reject'",
		})
	}

	r.AdminNote = strings.TrimSpace(r.AdminNote)
	if len(r.AdminNote) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "admin_note",
			Message: "admin_note must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LeaveResponse struct {
	ID           string     `json:"id"`
	Type         string     `json:"type"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      time.Time  `json:"end_date"`
	StartDateStr string     `json:"start_date_str"`
	EndDateStr   string     `json:"end_date_str"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	Days         int        `json:"days"`
	AdminNote    string     `json:"admin_note,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	User         *LeaveUser `json:"user,omitempty"`
}

type LeaveStatsResponse struct {
	TotalBalance int `json:"total_balance"`
	UsedThisYear int `json:"used_this_year"`
	Remaining    int `json:"remaining"`
	PendingCount int `json:"pending_count"`
}
