package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
)

// lateReportDelay is how long after office start the daily late report is produced.
const lateReportDelay = time.Hour

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	policy         attendance.Policy
	now            func() time.Time

	mu           sync.Mutex
	lastReported time.Time
}

func NewAttendanceJobs(attendanceRepo attendance.AttendanceRepository, policy attendance.Policy) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		policy:         policy,
		now:            time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("log_daily_late_arrivals", 1*time.Hour, j.LogDailyLateArrivals)
}

// LogDailyLateArrivals logs today's late arrivals once per day, an hour after office start.
func (j *AttendanceJobs) LogDailyLateArrivals(ctx context.Context) error {
	now := j.now()
	today := j.policy.Day(now)
	if now.Before(attendance.OfficeStartFor(now, j.policy).Add(lateReportDelay)) {
		return nil
	}

	j.mu.Lock()
	if j.lastReported.Equal(today) {
		j.mu.Unlock()
		return nil
	}
	j.mu.Unlock()

	records, err := j.attendanceRepo.ListByDate(ctx, today, false)
	if err != nil {
		return fmt.Errorf("failed to list today's attendance: %w", err)
	}

	lateCount := 0
	for _, record := range records {
		status := j.policy.Status(record.CheckIn, record.CheckOut)
		if !status.IsLate {
			continue
		}
		lateCount++

		name := ""
		if record.UserName != nil {
			name = *record.UserName
		}
		slog.Info("Cron: Late arrival",
			"user_id", record.UserID,
			"user_name", name,
			"late_by", *status.LateByFormatted,
		)
	}

	j.mu.Lock()
	j.lastReported = today
	j.mu.Unlock()

	slog.Info("Cron: Daily late arrivals", "date", today.Format("2006-01-02"), "checked_in", len(records), "late", lateCount)
	return nil
}
