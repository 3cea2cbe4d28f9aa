package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLeaveDays(t *testing.T) {
	single := Leave{StartDate: day(2025, 3, 10), EndDate: day(2025, 3, 10)}
	assert.Equal(t, 1, single.Days())

	week := Leave{StartDate: day(2025, 3, 10), EndDate: day(2025, 3, 16)}
	assert.Equal(t, 7, week.Days())

	reversed := Leave{StartDate: day(2025, 3, 12), EndDate: day(2025, 3, 10)}
	assert.Equal(t, 0, reversed.Days())
}

func TestLeaveDays_AcrossDaylightSavingChange(t *testing.T) {
	// Setup
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	local := func(m time.Month, d int) time.Time { return time.Date(2025, m, d, 0, 0, 0, 0, ny) }

	// Act
	fallBack := Leave{StartDate: local(time.November, 2), EndDate: local(time.November, 3)}
	springForward := Leave{StartDate: local(time.March, 8), EndDate: local(time.March, 10)}

	// Assert
	assert.Equal(t, 2, fallBack.Days())
	assert.Equal(t, 3, springForward.Days())
	assert.Equal(t, 1, fallBack.OverlapDays(local(time.November, 3), local(time.November, 30)))
}

func TestLeaveOverlapDays(t *testing.T) {
	l := Leave{StartDate: day(2025, 2, 27), EndDate: day(2025, 3, 3)}
	monthStart, monthEnd := day(2025, 3, 1), day(2025, 3, 31)

	assert.Equal(t, 3, l.OverlapDays(monthStart, monthEnd))
	assert.Equal(t, 2, l.OverlapDays(day(2025, 2, 1), day(2025, 2, 28)))
	assert.Equal(t, 0, l.OverlapDays(day(2025, 4, 1), day(2025, 4, 30)))
}

func TestCreateLeaveRequest_Validate(t *testing.T) {
	req := CreateLeaveRequest{StartDate: "2025-03-10", EndDate: "2025-03-12", Reason: "  trip "}

	assert.NoError(t, req.Validate(time.UTC))
	assert.Equal(t, "casual", req.Type)
	assert.Equal(t, "trip", req.Reason)
	assert.Equal(t, day(2025, 3, 10), req.Start)
	assert.Equal(t, day(2025, 3, 12), req.End)
}

func TestCreateLeaveRequest_ValidateRejectsReversedRange(t *testing.T) {
	req := CreateLeaveRequest{StartDate: "2025-03-12", EndDate: "2025-03-10"}

	err := req.Validate(time.UTC)

	assert.ErrorContains(t, err, "end date must be on or after start date")
}

func TestCreateLeaveRequest_ValidateRequiresDates(t *testing.T) {
	req := CreateLeaveRequest{Type: "vacation", EndDate: "12/03/2025"}

	err := req.Validate(time.UTC)

	assert.ErrorContains(t, err, "start_date is required")
	assert.ErrorContains(t, err, "end_date must be in YYYY-MM-DD format")
	assert.ErrorContains(t, err, "type must be one of")
}

func TestReviewLeaveRequest_Validate(t *testing.T) {
	req := ReviewLeaveRequest{ID: "not-an-id", Action: ActionApprove}
	assert.ErrorIs(t, req.Validate(), ErrInvalidLeaveID)

	req = ReviewLeaveRequest{ID: "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", Action: "maybe"}
	assert.ErrorContains(t, req.Validate(), "action must be 'approve' or 'reject'")

	req.Action = ActionReject
	assert.NoError(t, req.Validate())
}
