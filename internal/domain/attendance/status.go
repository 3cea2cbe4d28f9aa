package attendance

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Policy configures how punctuality and worked time are evaluated.
// It is built once at startup and passed to every status computation.
type Policy struct {
	OfficeStartHour     int
	OfficeStartMinute   int
	RequiredWorkMinutes int

	// Location decides which calendar day a check-in belongs to. Nil means time.Local.
	Location *time.Location
}

// DefaultPolicy returns a 10:00 office start with a 9 hour work requirement.
func DefaultPolicy() Policy {
	return Policy{
		OfficeStartHour:     10,
		OfficeStartMinute:   0,
		RequiredWorkMinutes: 9 * 60,
		Location:            time.Local,
	}
}

// ParseOfficeStart parses an "HH:MM" office start time.
func ParseOfficeStart(value string) (hour int, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("office start %q must be in HH:MM format", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("office start hour %q must be between 0 and 23", parts[0])
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("office start minute %q must be between 0 and 59", parts[1])
	}
	return hour, minute, nil
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

// Zone returns the location calendar days are evaluated in.
func (p Policy) Zone() *time.Location {
	return p.location()
}

// In converts t to the policy location.
func (p Policy) In(t time.Time) time.Time {
	return t.In(p.location())
}

// Day returns midnight of the calendar day t falls on.
func (p Policy) Day(t time.Time) time.Time {
	local := t.In(p.location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.location())
}

// CalendarDate keeps the year, month and day of d and places midnight of that date in the
// policy location. Use it for DATE values read back from storage.
func (p Policy) CalendarDate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, p.location())
}

// Status is the derived punctuality view of one attendance record.
type Status struct {
	IsLate           bool    `json:"is_late"`
	LateMinutes      int     `json:"late_minutes"`
	TotalWorkMinutes int     `json:"total_work_minutes"`
	StatusMessage    string  `json:"status_message"`
	LateByFormatted  *string `json:"late_by_formatted"`
}

// Status computes the status of a typed record.
func (p Policy) Status(checkIn time.Time, checkOut *time.Time) Status {
	if checkOut == nil {
		return ComputeStatus(checkIn, nil, p)
	}
	return ComputeStatus(checkIn, *checkOut, p)
}

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ToTime converts a timestamp-like value to a time.Time, reading timestamps
// without a zone as server-local time. The second result is false for nil,
// zero and unparseable values.
func ToTime(value any) (time.Time, bool) {
	return ToTimeIn(value, time.Local)
}

// ToTimeIn is ToTime with zone-less strings read in loc.
func ToTimeIn(value any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range layouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	case *string:
		if v == nil {
			return time.Time{}, false
		}
		return ToTimeIn(*v, loc)
	case int:
		return time.UnixMilli(int64(v)), true
	case int64:
		return time.UnixMilli(v), true
	case float64:
		return fromEpochFloat(v)
	case json.Number:
		if ms, err := v.Int64(); err == nil {
			return time.UnixMilli(ms), true
		}
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromEpochFloat(f)
	default:
		return time.Time{}, false
	}
}

func fromEpochFloat(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)), true
}

// ToTime parses value like ToTimeIn, in the policy location.
func (p Policy) ToTime(value any) (time.Time, bool) {
	return ToTimeIn(value, p.location())
}

// MinutesBetween returns the whole minutes from start to end, rounded to
// the nearest minute and never negative. Missing endpoints yield 0.
func MinutesBetween(start, end any) int {
	s, ok := ToTime(start)
	if !ok {
		return 0
	}
	e, ok := ToTime(end)
	if !ok {
		return 0
	}
	minutes := math.Round(float64(e.Sub(s).Milliseconds()) / float64(time.Minute/time.Millisecond))
	if minutes < 0 {
		return 0
	}
	return int(minutes)
}

// FormatDuration renders minutes as "1 hr 5 min", "2 hr" or "45 min".
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "0 min"
	}
	hrs := minutes / 60
	mins := minutes % 60
	switch {
	case hrs > 0 && mins > 0:
		return fmt.Sprintf("%d hr %d min", hrs, mins)
	case hrs > 0:
		return fmt.Sprintf("%d hr", hrs)
	default:
		return fmt.Sprintf("%d min", mins)
	}
}

// OfficeStartFor returns the office start on the calendar day of t.
func OfficeStartFor(t time.Time, p Policy) time.Time {
	local := t.In(p.location())
	return time.Date(local.Year(), local.Month(), local.Day(), p.OfficeStartHour, p.OfficeStartMinute, 0, 0, p.location())
}

// ComputeStatus evaluates a check-in / check-out pair against the policy.
// Both values accept anything ToTime understands, zone-less strings being read in the
// policy location; unparseable values count as absent.
func ComputeStatus(checkIn, checkOut any, p Policy) Status {
	cin, ok := p.ToTime(checkIn)
	if !ok {
		return Status{StatusMessage: "No check-in recorded"}
	}
	cout, hasCheckOut := p.ToTime(checkOut)

	officeStart := OfficeStartFor(cin, p)
	rawLateMinutes := MinutesBetween(officeStart, cin)
	isAfterOfficeStart := cin.After(officeStart)

	if !hasCheckOut {
		lateMinutes := 0
		if isAfterOfficeStart {
			lateMinutes = rawLateMinutes
		}
		status := Status{
			IsLate:        lateMinutes > 0,
			LateMinutes:   lateMinutes,
			StatusMessage: "Checked in on time (no check-out yet)",
		}
		if lateMinutes > 0 {
			formatted := FormatDuration(lateMinutes)
			status.LateByFormatted = &formatted
			status.StatusMessage = fmt.Sprintf("Checked in %s late (no check-out yet)", formatted)
		}
		return status
	}

	totalWorkMinutes := MinutesBetween(cin, cout)

	// A full required shift forgives a late arrival.
	lateWaived := totalWorkMinutes >= p.RequiredWorkMinutes
	lateMinutes := 0
	if !lateWaived && isAfterOfficeStart {
		lateMinutes = rawLateMinutes
	}

	status := Status{
		IsLate:           lateMinutes > 0,
		LateMinutes:      lateMinutes,
		TotalWorkMinutes: totalWorkMinutes,
	}
	if lateMinutes > 0 {
		formatted := FormatDuration(lateMinutes)
		status.LateByFormatted = &formatted
	}

	switch {
	case lateWaived && isAfterOfficeStart:
		status.StatusMessage = fmt.Sprintf("Present (late waived – %d+ hours worked)", p.RequiredWorkMinutes/60)
	case status.IsLate:
		status.StatusMessage = "Late by " + *status.LateByFormatted
	default:
		status.StatusMessage = "On time"
	}
	return status
}
