package attendance

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type UserRef struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AttendanceResponse struct {
	ID               string     `json:"id"`
	User             *UserRef   `json:"user,omitempty"`
	Date             string     `json:"date"`
	DateStr          string     `json:"date_str"`
	CheckIn          string     `json:"check_in"`
	CheckOut         string     `json:"check_out"`
	CheckInRaw       time.Time  `json:"check_in_raw"`
	CheckOutRaw      *time.Time `json:"check_out_raw"`
	RecordStatus     string     `json:"record_status"`
	Status           string     `json:"status"`
	LateBy           string     `json:"late_by"`
	IsLate           bool       `json:"is_late"`
	LateMinutes      int        `json:"late_minutes"`
	TotalWorkMinutes int        `json:"total_work_minutes"`
}

type TodayResponse struct {
	CheckedIn   bool                `json:"checked_in"`
	CheckInTime *time.Time          `json:"check_in_time"`
	Record      *AttendanceResponse `json:"record"`
}

type InOfficeResponse struct {
	ID          string    `json:"id"`
	User        *UserRef  `json:"user"`
	CheckIn     string    `json:"check_in"`
	CheckInRaw  time.Time `json:"check_in_raw"`
	Status      string    `json:"status"`
	IsLate      bool      `json:"is_late"`
	LateMinutes int       `json:"late_minutes"`
}

type LateArrivalResponse struct {
	ID      string   `json:"id"`
	User    *UserRef `json:"user"`
	CheckIn string   `json:"check_in"`
	LateBy  *string  `json:"late_by"`
	IsLate  bool     `json:"is_late"`
}

type SummaryRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if r.Year < 1970 || r.Year > 9999 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 1970 and 9999",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SummaryResponse struct {
	User             UserRef `json:"user"`
	DaysPresent      int     `json:"days_present"`
	DaysOnLeave      int     `json:"days_on_leave"`
	TotalWorkingDays int     `json:"total_working_days"`
}

const (
	ExportFormatXLSX = "xlsx"
	ExportFormatPDF  = "pdf"
)

type ExportSummaryRequest struct {
	SummaryRequest
	Format string `json:"format"`
}

func (r *ExportSummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := r.SummaryRequest.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}

	if r.Format == "" {
		r.Format = ExportFormatXLSX
	}
	r.Format = strings.ToLower(r.Format)
	if !validator.IsInSlice(r.Format, []string{ExportFormatXLSX, ExportFormatPDF}) {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: "format must be one of: xlsx, pdf",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ExportFile is a rendered report ready to be streamed to the client.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

type RecordFilter struct {
	UserID *string `json:"user_id,omitempty"`
	Month  *int    `json:"month,omitempty"`
	Year   *int    `json:"year,omitempty"`

	// From and To are derived from Month and Year
	From *time.Time `json:"-"`
	To   *time.Time `json:"-"`

	Limit int `json:"limit"`
}

func (f *RecordFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.UserID != nil && !validator.IsValidUUID(*f.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user",
			Message: "user must be a valid id",
		})
	}

	if (f.Month == nil) != (f.Year == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month and year must be provided together",
		})
	} else if f.Month != nil {
		summary := SummaryRequest{Month: *f.Month, Year: *f.Year}
		if err := summary.Validate(); err != nil {
			errs = append(errs, err.(validator.ValidationErrors)...)
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

// UpdateRecordRequest corrects a record. An absent field is left untouched;
// a null or empty check_out clears the check-out.
type UpdateRecordRequest struct {
	ID       string          `json:"-"`
	CheckIn  json.RawMessage `json:"check_in,omitempty"`
	CheckOut json.RawMessage `json:"check_out,omitempty"`
}

// RecordChanges is the parsed form of UpdateRecordRequest.
type RecordChanges struct {
	CheckIn       *time.Time
	CheckOut      *time.Time
	ClearCheckOut bool
}

func (r *UpdateRecordRequest) Validate(loc *time.Location) error {
	if !validator.IsValidUUID(r.ID) {
		return ErrInvalidRecordID
	}
	_, err := r.Changes(loc)
	return err
}

// Changes parses the raw fields into concrete edits. Timestamps without a zone are read in loc.
func (r *UpdateRecordRequest) Changes(loc *time.Location) (RecordChanges, error) {
	var changes RecordChanges

	if len(r.CheckIn) > 0 {
		value, present := decodeRaw(r.CheckIn)
		t, ok := ToTimeIn(value, loc)
		if !present || !ok {
			return RecordChanges{}, ErrInvalidCheckIn
		}
		changes.CheckIn = &t
	}

	if len(r.CheckOut) > 0 {
		value, present := decodeRaw(r.CheckOut)
		if !present {
			changes.ClearCheckOut = true
			return changes, nil
		}
		t, ok := ToTimeIn(value, loc)
		if !ok {
			return RecordChanges{}, ErrInvalidCheckOut
		}
		changes.CheckOut = &t
	}

	return changes, nil
}

// decodeRaw reports false for null and empty strings.
func decodeRaw(raw json.RawMessage) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return string(raw), true
	}
	if value == nil {
		return nil, false
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return value, true
}
