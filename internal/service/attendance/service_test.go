package attendance

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fixture struct {
	svc         *AttendanceServiceImpl
	users       *servicetest.UserRepo
	attendances *servicetest.AttendanceRepo
	leaves      *servicetest.LeaveRepo
	asha        user.User
	ravi        user.User
	admin       user.User
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	f := &fixture{
		asha:  user.User{ID: servicetest.NewID(), Name: "Asha", Email: "asha@example.com", Role: user.RoleEmployee},
		ravi:  user.User{ID: servicetest.NewID(), Name: "Ravi", Email: "ravi@example.com", Role: user.RoleEmployee},
		admin: user.User{ID: servicetest.NewID(), Name: "Admin", Email: "admin@example.com", Role: user.RoleAdmin},
	}
	f.users = servicetest.NewUserRepo(f.asha, f.ravi, f.admin)
	f.attendances = servicetest.NewAttendanceRepo(f.users)
	f.leaves = servicetest.NewLeaveRepo(f.users)

	policy := attendance.DefaultPolicy()
	policy.Location = time.UTC
	f.svc = NewAttendanceService(servicetest.Tx{}, f.attendances, f.leaves, f.users, policy).(*AttendanceServiceImpl)
	f.svc.now = func() time.Time { return now }
	return f
}

func (f *fixture) at(t time.Time) {
	f.svc.now = func() time.Time { return t }
}

func march12(hour, minute int) time.Time {
	return time.Date(2025, time.March, 12, hour, minute, 0, 0, time.UTC)
}

func TestCheckIn_Success(t *testing.T) {
	// Setup
	f := newFixture(t, march12(10, 7))

	// Act
	resp, err := f.svc.CheckIn(servicetest.ContextFor(t, f.asha))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "10:07 AM", resp.CheckIn)
	assert.Equal(t, "", resp.CheckOut)
	assert.Equal(t, "Wednesday, March 12, 2025", resp.Date)
	assert.Equal(t, "2025-03-12", resp.DateStr)
	assert.Equal(t, attendance.RecordStatusPresent, resp.RecordStatus)
	assert.True(t, resp.IsLate)
	assert.Equal(t, 7, resp.LateMinutes)
	assert.Equal(t, "7 min", resp.LateBy)
	assert.Equal(t, "Checked in 7 min late (no check-out yet)", resp.Status)
	require.NotNil(t, resp.User)
	assert.Equal(t, "Asha", resp.User.Name)
}

func TestCheckIn_Twice(t *testing.T) {
	f := newFixture(t, march12(9, 50))
	ctx := servicetest.ContextFor(t, f.asha)

	_, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)
	_, err = f.svc.CheckIn(ctx)

	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_NextDayIsNewRecord(t *testing.T) {
	f := newFixture(t, march12(9, 50))
	ctx := servicetest.ContextFor(t, f.asha)

	_, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)
	f.at(march12(9, 50).AddDate(0, 0, 1))
	_, err = f.svc.CheckIn(ctx)

	require.NoError(t, err)
	assert.Len(t, f.attendances.Records, 2)
}

func TestCheckIn_RequiresClaims(t *testing.T) {
	f := newFixture(t, march12(9, 50))

	_, err := f.svc.CheckIn(context.Background())

	assert.Error(t, err)
}

func TestCheckOut_Success(t *testing.T) {
	f := newFixture(t, march12(10, 30))
	ctx := servicetest.ContextFor(t, f.asha)
	_, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)

	f.at(march12(19, 35))
	resp, err := f.svc.CheckOut(ctx)

	require.NoError(t, err)
	assert.Equal(t, "07:35 PM", resp.CheckOut)
	assert.Equal(t, attendance.RecordStatusOut, resp.RecordStatus)
	assert.Equal(t, 545, resp.TotalWorkMinutes)
	assert.False(t, resp.IsLate)
	assert.Equal(t, "-", resp.LateBy)
	assert.Equal(t, "Present (late waived – 9+ hours worked)", resp.Status)
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	f := newFixture(t, march12(18, 0))

	_, err := f.svc.CheckOut(servicetest.ContextFor(t, f.asha))

	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestCheckOut_Twice(t *testing.T) {
	f := newFixture(t, march12(9, 0))
	ctx := servicetest.ContextFor(t, f.asha)
	_, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)
	f.at(march12(18, 0))
	_, err = f.svc.CheckOut(ctx)
	require.NoError(t, err)

	_, err = f.svc.CheckOut(ctx)

	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestToday(t *testing.T) {
	f := newFixture(t, march12(9, 0))
	ctx := servicetest.ContextFor(t, f.asha)

	empty, err := f.svc.Today(ctx)
	require.NoError(t, err)
	assert.False(t, empty.CheckedIn)
	assert.Nil(t, empty.Record)

	_, err = f.svc.CheckIn(ctx)
	require.NoError(t, err)
	in, err := f.svc.Today(ctx)
	require.NoError(t, err)
	assert.True(t, in.CheckedIn)
	require.NotNil(t, in.CheckInTime)
	assert.True(t, in.CheckInTime.Equal(march12(9, 0)))

	f.at(march12(18, 0))
	_, err = f.svc.CheckOut(ctx)
	require.NoError(t, err)
	out, err := f.svc.Today(ctx)
	require.NoError(t, err)
	assert.False(t, out.CheckedIn)
	require.NotNil(t, out.Record)
	assert.Equal(t, "06:00 PM", out.Record.CheckOut)
}

func TestHistory_NewestFirstAndOwnOnly(t *testing.T) {
	f := newFixture(t, march12(9, 0))
	ashaCtx := servicetest.ContextFor(t, f.asha)
	for d := 0; d < 3; d++ {
		f.at(march12(9, 0).AddDate(0, 0, d))
		_, err := f.svc.CheckIn(ashaCtx)
		require.NoError(t, err)
	}
	_, err := f.svc.CheckIn(servicetest.ContextFor(t, f.ravi))
	require.NoError(t, err)

	history, err := f.svc.History(ashaCtx)

	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "2025-03-14", history[0].DateStr)
	assert.Equal(t, "2025-03-12", history[2].DateStr)
}

func TestInOffice_OnlyOpenRecords(t *testing.T) {
	f := newFixture(t, march12(9, 30))
	_, err := f.svc.CheckIn(servicetest.ContextFor(t, f.asha))
	require.NoError(t, err)
	f.at(march12(10, 15))
	raviCtx := servicetest.ContextFor(t, f.ravi)
	_, err = f.svc.CheckIn(raviCtx)
	require.NoError(t, err)
	f.at(march12(12, 0))
	_, err = f.svc.CheckOut(servicetest.ContextFor(t, f.asha))
	require.NoError(t, err)

	inOffice, err := f.svc.InOffice(raviCtx)

	require.NoError(t, err)
	require.Len(t, inOffice, 1)
	assert.Equal(t, "Ravi", inOffice[0].User.Name)
	assert.True(t, inOffice[0].IsLate)
	assert.Equal(t, 15, inOffice[0].LateMinutes)
}

func TestLateToday(t *testing.T) {
	f := newFixture(t, march12(9, 30))
	_, err := f.svc.CheckIn(servicetest.ContextFor(t, f.asha))
	require.NoError(t, err)
	f.at(march12(11, 5))
	_, err = f.svc.CheckIn(servicetest.ContextFor(t, f.ravi))
	require.NoError(t, err)

	late, err := f.svc.LateToday(servicetest.ContextFor(t, f.admin))

	require.NoError(t, err)
	require.Len(t, late, 1)
	assert.Equal(t, "Ravi", late[0].User.Name)
	assert.Equal(t, "11:05 AM", late[0].CheckIn)
	require.NotNil(t, late[0].LateBy)
	assert.Equal(t, "1 hr 5 min", *late[0].LateBy)
}

func TestSummary(t *testing.T) {
	f := newFixture(t, march12(9, 0))
	ctx := servicetest.ContextFor(t, f.asha)
	for _, d := range []int{3, 4, 5} {
		f.at(time.Date(2025, time.March, d, 9, 0, 0, 0, time.UTC))
		_, err := f.svc.CheckIn(ctx)
		require.NoError(t, err)
	}
	_, err := f.leaves.Create(context.Background(), leave.Leave{
		UserID:    f.asha.ID,
		Type:      leave.TypeCasual,
		StartDate: time.Date(2025, time.February, 27, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC),
		Status:    leave.StatusApproved,
	})
	require.NoError(t, err)
	_, err = f.leaves.Create(context.Background(), leave.Leave{
		UserID:    f.ravi.ID,
		StartDate: time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, time.March, 21, 0, 0, 0, 0, time.UTC),
		Status:    leave.StatusPending,
	})
	require.NoError(t, err)

	summary, err := f.svc.Summary(ctx, attendance.SummaryRequest{Month: 3, Year: 2025})

	require.NoError(t, err)
	byUser := map[string]attendance.SummaryResponse{}
	for _, s := range summary {
		byUser[s.User.ID] = s
	}
	require.Len(t, byUser, 3)
	assert.Equal(t, 3, byUser[f.asha.ID].DaysPresent)
	assert.Equal(t, 2, byUser[f.asha.ID].DaysOnLeave)
	assert.Equal(t, 21, byUser[f.asha.ID].TotalWorkingDays)
	assert.Equal(t, 0, byUser[f.ravi.ID].DaysOnLeave)
}

func TestSummary_DefaultsToCurrentMonth(t *testing.T) {
	f := newFixture(t, march12(9, 0))

	summary, err := f.svc.Summary(context.Background(), attendance.SummaryRequest{})

	require.NoError(t, err)
	require.NotEmpty(t, summary)
	assert.Equal(t, 21, summary[0].TotalWorkingDays)
}

func TestSummary_InvalidMonth(t *testing.T) {
	f := newFixture(t, march12(9, 0))

	_, err := f.svc.Summary(context.Background(), attendance.SummaryRequest{Month: 13, Year: 2025})

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestWorkingDays(t *testing.T) {
	from := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 20, workingDays(from, to))
}

func TestExportSummary_XLSX(t *testing.T) {
	f := newFixture(t, march12(9, 0))
	_, err := f.svc.CheckIn(servicetest.ContextFor(t, f.asha))
	require.NoError(t, err)

	file, err := f.svc.ExportSummary(context.Background(), attendance.ExportSummaryRequest{
		SummaryRequest: attendance.SummaryRequest{Month: 3, Year: 2025},
	})

	require.NoError(t, err)
	assert.Equal(t, "attendance-summary-2025-03.xlsx", file.Filename)
	book, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer book.Close()
	subtitle, _ := book.GetCellValue("Summary", "A2")
	assert.Equal(t, "March 2025", subtitle)
}

func TestExportSummary_PDF(t *testing.T) {
	f := newFixture(t, march12(9, 0))

	file, err := f.svc.ExportSummary(context.Background(), attendance.ExportSummaryRequest{
		SummaryRequest: attendance.SummaryRequest{Month: 3, Year: 2025},
		Format:         "PDF",
	})

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("%PDF")))
}

func TestExportSummary_UnknownFormat(t *testing.T) {
	f := newFixture(t, march12(9, 0))

	_, err := f.svc.ExportSummary(context.Background(), attendance.ExportSummaryRequest{
		SummaryRequest: attendance.SummaryRequest{Month: 3, Year: 2025},
		Format:         "csv",
	})

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestListRecords_FilterByUserAndMonth(t *testing.T) {
	f := newFixture(t, march12(9, 0))
	_, err := f.svc.CheckIn(servicetest.ContextFor(t, f.asha))
	require.NoError(t, err)
	_, err = f.svc.CheckIn(servicetest.ContextFor(t, f.ravi))
	require.NoError(t, err)
	f.at(time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC))
	_, err = f.svc.CheckIn(servicetest.ContextFor(t, f.asha))
	require.NoError(t, err)

	month, year := 3, 2025
	records, err := f.svc.ListRecords(context.Background(), attendance.RecordFilter{UserID: &f.asha.ID, Month: &month, Year: &year})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2025-03-12", records[0].DateStr)
	assert.Equal(t, "-", records[0].LateBy)
}

func TestUpdateRecord_ClearCheckOut(t *testing.T) {
	f := newFixture(t, march12(10, 30))
	ctx := servicetest.ContextFor(t, f.asha)
	created, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)
	f.at(march12(18, 0))
	_, err = f.svc.CheckOut(ctx)
	require.NoError(t, err)

	resp, err := f.svc.UpdateRecord(context.Background(), attendance.UpdateRecordRequest{
		ID:       created.ID,
		CheckOut: json.RawMessage(`null`),
	})

	require.NoError(t, err)
	assert.Equal(t, attendance.RecordStatusPresent, resp.RecordStatus)
	assert.Equal(t, "", resp.CheckOut)
	assert.Equal(t, "Checked in 30 min late (no check-out yet)", resp.Status)
}

func TestUpdateRecord_SetTimes(t *testing.T) {
	f := newFixture(t, march12(10, 30))
	created, err := f.svc.CheckIn(servicetest.ContextFor(t, f.asha))
	require.NoError(t, err)

	resp, err := f.svc.UpdateRecord(context.Background(), attendance.UpdateRecordRequest{
		ID:       created.ID,
		CheckIn:  json.RawMessage(`"2025-03-12T09:55:00Z"`),
		CheckOut: json.RawMessage(`"2025-03-12T18:00:00Z"`),
	})

	require.NoError(t, err)
	assert.Equal(t, attendance.RecordStatusOut, resp.RecordStatus)
	assert.Equal(t, "On time", resp.Status)
	assert.Equal(t, 485, resp.TotalWorkMinutes)
}

func TestUpdateRecord_ZonelessTimesUsePolicyLocation(t *testing.T) {
	// Setup
	ist := time.FixedZone("IST", 5*3600+30*60)
	f := newFixture(t, time.Date(2025, time.March, 12, 4, 40, 0, 0, time.UTC)) // 10:10 IST
	f.svc.policy.Location = ist
	created, err := f.svc.CheckIn(servicetest.ContextFor(t, f.asha))
	require.NoError(t, err)
	require.True(t, created.IsLate)

	// Act
	resp, err := f.svc.UpdateRecord(context.Background(), attendance.UpdateRecordRequest{
		ID:       created.ID,
		CheckIn:  json.RawMessage(`"2025-03-12T09:55:00"`),
		CheckOut: json.RawMessage(`1.7417826e12`), // 18:00 IST as a float epoch
	})

	// Assert
	require.NoError(t, err)
	assert.False(t, resp.IsLate)
	assert.Equal(t, "On time", resp.Status)
	assert.Equal(t, 485, resp.TotalWorkMinutes)

	stored, err := f.attendances.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, stored.CheckIn.Equal(time.Date(2025, time.March, 12, 9, 55, 0, 0, ist)))
}

func TestUpdateRecord_Errors(t *testing.T) {
	f := newFixture(t, march12(10, 30))
	created, err := f.svc.CheckIn(servicetest.ContextFor(t, f.asha))
	require.NoError(t, err)

	_, err = f.svc.UpdateRecord(context.Background(), attendance.UpdateRecordRequest{ID: "not-an-id"})
	assert.ErrorIs(t, err, attendance.ErrInvalidRecordID)

	_, err = f.svc.UpdateRecord(context.Background(), attendance.UpdateRecordRequest{ID: servicetest.NewID()})
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	_, err = f.svc.UpdateRecord(context.Background(), attendance.UpdateRecordRequest{ID: created.ID, CheckIn: json.RawMessage(`"yesterday-ish"`)})
	assert.ErrorIs(t, err, attendance.ErrInvalidCheckIn)

	_, err = f.svc.UpdateRecord(context.Background(), attendance.UpdateRecordRequest{ID: created.ID, CheckOut: json.RawMessage(`"nope"`)})
	assert.ErrorIs(t, err, attendance.ErrInvalidCheckOut)
}
