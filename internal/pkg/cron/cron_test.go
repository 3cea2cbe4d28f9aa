package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAttendanceRepo struct {
	attendance.AttendanceRepository
	records []attendance.Attendance
	calls   int
	err     error
}

func (s *stubAttendanceRepo) ListByDate(ctx context.Context, date time.Time, openOnly bool) ([]attendance.Attendance, error) {
	s.calls++
	return s.records, s.err
}

type stubPruner struct{ calls int }

func (s *stubPruner) PruneRevoked(now time.Time) int {
	s.calls++
	return 2
}

func TestScheduler_RunOnce(t *testing.T) {
	// Setup
	s := NewScheduler(nil)
	var ran int32
	s.AddJob("ok", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})
	s.AddJob("fails", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&ran, 1)
		return errors.New("boom")
	})

	// Act
	s.RunOnce(context.Background())

	// Assert
	assert.Equal(t, int32(2), atomic.LoadInt32(&ran))
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(nil)
	done := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background())
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}

func TestScheduler_SkipsOverlappingRun(t *testing.T) {
	// Setup
	s := NewScheduler(nil)
	var calls int32
	entered := make(chan struct{})
	release := make(chan struct{})
	s.AddJob("slow", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		close(entered)
		<-release
		return nil
	})

	finished := make(chan struct{})
	go func() {
		s.RunOnce(context.Background())
		close(finished)
	}()
	<-entered

	// Act
	s.RunOnce(context.Background())
	close(release)
	<-finished

	// Assert
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestScheduler_JobTimeout(t *testing.T) {
	s := NewScheduler(nil)
	var deadlineErr error
	s.AddJobWithTimeout("bounded", time.Hour, 10*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		deadlineErr = ctx.Err()
		return deadlineErr
	})

	s.RunOnce(context.Background())

	assert.ErrorIs(t, deadlineErr, context.DeadlineExceeded)
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	s := NewScheduler(nil)
	s.AddJob("a", time.Minute, func(ctx context.Context) error { return nil })
	s.AddJob("b", time.Minute, func(ctx context.Context) error { return nil })

	assert.NotPanics(t, s.Stop)
	assert.Equal(t, []string{"a", "b"}, s.Jobs())
}

func TestTokenJobs_PruneRevokedTokens(t *testing.T) {
	pruner := &stubPruner{}
	s := NewScheduler(nil)
	NewTokenJobs(pruner).RegisterJobs(s)

	s.RunOnce(context.Background())

	assert.Equal(t, 1, pruner.calls)
}

func lateJobsAt(repo *stubAttendanceRepo, now time.Time) *AttendanceJobs {
	policy := attendance.DefaultPolicy()
	policy.Location = time.UTC
	jobs := NewAttendanceJobs(repo, policy)
	jobs.now = func() time.Time { return now }
	return jobs
}

func TestLogDailyLateArrivals_WaitsUntilAfterOfficeStart(t *testing.T) {
	repo := &stubAttendanceRepo{}
	jobs := lateJobsAt(repo, time.Date(2025, time.March, 12, 10, 30, 0, 0, time.UTC))

	require.NoError(t, jobs.LogDailyLateArrivals(context.Background()))

	assert.Equal(t, 0, repo.calls)
}

func TestLogDailyLateArrivals_RunsOncePerDay(t *testing.T) {
	name := "Ravi"
	repo := &stubAttendanceRepo{records: []attendance.Attendance{
		{UserID: "u1", UserName: &name, CheckIn: time.Date(2025, time.March, 12, 10, 20, 0, 0, time.UTC)},
		{UserID: "u2", CheckIn: time.Date(2025, time.March, 12, 9, 50, 0, 0, time.UTC)},
	}}
	jobs := lateJobsAt(repo, time.Date(2025, time.March, 12, 11, 5, 0, 0, time.UTC))

	require.NoError(t, jobs.LogDailyLateArrivals(context.Background()))
	require.NoError(t, jobs.LogDailyLateArrivals(context.Background()))

	assert.Equal(t, 1, repo.calls)

	jobs.now = func() time.Time { return time.Date(2025, time.March, 13, 11, 5, 0, 0, time.UTC) }
	require.NoError(t, jobs.LogDailyLateArrivals(context.Background()))
	assert.Equal(t, 2, repo.calls)
}

func TestLogDailyLateArrivals_RetriesAfterError(t *testing.T) {
	repo := &stubAttendanceRepo{err: errors.New("db down")}
	jobs := lateJobsAt(repo, time.Date(2025, time.March, 12, 11, 5, 0, 0, time.UTC))

	assert.Error(t, jobs.LogDailyLateArrivals(context.Background()))

	repo.err = nil
	require.NoError(t, jobs.LogDailyLateArrivals(context.Background()))
	assert.Equal(t, 2, repo.calls)
}
