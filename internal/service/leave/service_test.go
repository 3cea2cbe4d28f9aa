package leave

import (
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc    *LeaveServiceImpl
	leaves *servicetest.LeaveRepo
	hub    *sse.Hub
	mailer *servicetest.Mailer
	maya   user.User
	admin  user.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		hub:    sse.NewHub(),
		mailer: &servicetest.Mailer{},
		maya:   user.User{ID: servicetest.NewID(), Name: "Maya", Email: "maya@example.com", Role: user.RoleEmployee},
		admin:  user.User{ID: servicetest.NewID(), Name: "Admin", Email: "admin@example.com", Role: user.RoleAdmin},
	}
	users := servicetest.NewUserRepo(f.maya, f.admin)
	f.leaves = servicetest.NewLeaveRepo(users)

	policy := attendance.DefaultPolicy()
	policy.Location = time.UTC
	f.svc = NewLeaveService(servicetest.Tx{}, f.leaves, users, f.hub, f.mailer, policy, 24)
	f.svc.now = func() time.Time { return time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC) }
	return f
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (f *fixture) seed(t *testing.T, start, end time.Time, status leave.Status) leave.Leave {
	t.Helper()
	l, err := f.leaves.Create(t.Context(), leave.Leave{
		UserID:    f.maya.ID,
		Type:      leave.TypeCasual,
		StartDate: start,
		EndDate:   end,
		Status:    status,
	})
	require.NoError(t, err)
	return l
}

func TestCreate_Success(t *testing.T) {
	// Setup
	f := newFixture(t)
	ctx := servicetest.ContextFor(t, f.maya)

	// Act
	resp, err := f.svc.Create(ctx, leave.CreateLeaveRequest{
		Type:      "sick",
		StartDate: "2025-06-12",
		EndDate:   "2025-06-13",
		Reason:    "flu",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "sick", resp.Type)
	assert.Equal(t, 2, resp.Days)
	assert.Equal(t, "2025-06-12", resp.StartDateStr)
	assert.Equal(t, f.maya.ID, f.leaves.Leaves[resp.ID].UserID)
}

func TestCreate_EndBeforeStart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(servicetest.ContextFor(t, f.maya), leave.CreateLeaveRequest{
		StartDate: "2025-06-13",
		EndDate:   "2025-06-12",
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Empty(t, f.leaves.Leaves)
}

func TestMyLeaves_OnlyOwn(t *testing.T) {
	f := newFixture(t)
	f.seed(t, day(2025, 6, 1), day(2025, 6, 2), leave.StatusPending)
	_, err := f.leaves.Create(t.Context(), leave.Leave{UserID: f.admin.ID, StartDate: day(2025, 6, 1), EndDate: day(2025, 6, 1)})
	require.NoError(t, err)

	mine, err := f.svc.MyLeaves(servicetest.ContextFor(t, f.maya))

	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Maya", mine[0].User.Name)
}

func TestMyStats(t *testing.T) {
	f := newFixture(t)
	f.seed(t, day(2024, 12, 30), day(2025, 1, 2), leave.StatusApproved)
	f.seed(t, day(2025, 3, 10), day(2025, 3, 14), leave.StatusApproved)
	f.seed(t, day(2025, 4, 1), day(2025, 4, 3), leave.StatusRejected)
	f.seed(t, day(2025, 7, 1), day(2025, 7, 1), leave.StatusPending)

	stats, err := f.svc.MyStats(servicetest.ContextFor(t, f.maya))

	require.NoError(t, err)
	assert.Equal(t, 24, stats.TotalBalance)
	assert.Equal(t, 7, stats.UsedThisYear)
	assert.Equal(t, 17, stats.Remaining)
	assert.Equal(t, 1, stats.PendingCount)
}

func TestMyStats_RemainingNeverNegative(t *testing.T) {
	f := newFixture(t)
	f.seed(t, day(2025, 1, 1), day(2025, 2, 28), leave.StatusApproved)

	stats, err := f.svc.MyStats(servicetest.ContextFor(t, f.maya))

	require.NoError(t, err)
	assert.Equal(t, 59, stats.UsedThisYear)
	assert.Equal(t, 0, stats.Remaining)
}

func TestList_ByStatus(t *testing.T) {
	f := newFixture(t)
	f.seed(t, day(2025, 6, 1), day(2025, 6, 1), leave.StatusPending)
	f.seed(t, day(2025, 6, 2), day(2025, 6, 2), leave.StatusApproved)

	status := "approved"
	approved, err := f.svc.List(t.Context(), leave.LeaveFilter{Status: &status})
	require.NoError(t, err)
	assert.Len(t, approved, 1)

	all, err := f.svc.List(t.Context(), leave.LeaveFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bad := "archived"
	_, err = f.svc.List(t.Context(), leave.LeaveFilter{Status: &bad})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestReview_ApprovePublishesAndEmails(t *testing.T) {
	f := newFixture(t)
	pending := f.seed(t, day(2025, 6, 16), day(2025, 6, 18), leave.StatusPending)
	events, cleanup := f.hub.Subscribe(f.maya.ID)
	defer cleanup()

	resp, err := f.svc.Review(servicetest.ContextFor(t, f.admin), leave.ReviewLeaveRequest{
		ID:        pending.ID,
		Action:    leave.ActionApprove,
		AdminNote: " enjoy ",
	})
	f.svc.Wait()

	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	assert.Equal(t, "enjoy", resp.AdminNote)
	require.NotNil(t, resp.ReviewedAt)

	stored := f.leaves.Leaves[pending.ID]
	require.NotNil(t, stored.ReviewedBy)
	assert.Equal(t, f.admin.ID, *stored.ReviewedBy)

	select {
	case ev := <-events:
		assert.Equal(t, sse.EventLeaveReviewed, ev.Event)
		assert.Equal(t, resp, ev.Data)
	default:
		t.Fatal("expected a leave.reviewed event")
	}

	require.Equal(t, 1, f.mailer.Count())
	sent := f.mailer.Sent[0]
	assert.Equal(t, "maya@example.com", sent.To)
	assert.Equal(t, "approved", sent.Data.Status)
	assert.Equal(t, 3, sent.Data.Days)
	assert.Equal(t, "Maya", sent.Data.EmployeeName)
}

func TestReview_Reject(t *testing.T) {
	f := newFixture(t)
	pending := f.seed(t, day(2025, 6, 16), day(2025, 6, 16), leave.StatusPending)

	resp, err := f.svc.Review(servicetest.ContextFor(t, f.admin), leave.ReviewLeaveRequest{ID: pending.ID, Action: leave.ActionReject})
	f.svc.Wait()

	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
}

func TestReview_AlreadyProcessed(t *testing.T) {
	f := newFixture(t)
	done := f.seed(t, day(2025, 6, 16), day(2025, 6, 16), leave.StatusApproved)

	_, err := f.svc.Review(servicetest.ContextFor(t, f.admin), leave.ReviewLeaveRequest{ID: done.ID, Action: leave.ActionReject})

	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
	assert.Equal(t, 0, f.mailer.Count())
}

func TestReview_NotFoundAndInvalidID(t *testing.T) {
	f := newFixture(t)
	ctx := servicetest.ContextFor(t, f.admin)

	_, err := f.svc.Review(ctx, leave.ReviewLeaveRequest{ID: servicetest.NewID(), Action: leave.ActionApprove})
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	_, err = f.svc.Review(ctx, leave.ReviewLeaveRequest{ID: "42", Action: leave.ActionApprove})
	assert.ErrorIs(t, err, leave.ErrInvalidLeaveID)
}

func TestReview_EmailFailureDoesNotFailReview(t *testing.T) {
	f := newFixture(t)
	f.mailer.Err = errors.New("smtp down")
	pending := f.seed(t, day(2025, 6, 16), day(2025, 6, 16), leave.StatusPending)

	resp, err := f.svc.Review(servicetest.ContextFor(t, f.admin), leave.ReviewLeaveRequest{ID: pending.ID, Action: leave.ActionApprove})
	f.svc.Wait()

	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	assert.Equal(t, 1, f.mailer.Count())
}
