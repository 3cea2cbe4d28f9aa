package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/export"
)

// monthRange returns the first and last calendar day of a month.
func (s *AttendanceServiceImpl) monthRange(year, month int) (time.Time, time.Time) {
	first := s.policy.CalendarDate(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))
	last := first.AddDate(0, 1, -1)
	return first, last
}

// workingDays counts Monday to Friday between from and to inclusive.
func workingDays(from, to time.Time) int {
	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			count++
		}
	}
	return count
}

func (s *AttendanceServiceImpl) defaultPeriod(req *attendance.SummaryRequest) {
	now := s.policy.In(s.now())
	if req.Month == 0 {
		req.Month = int(now.Month())
	}
	if req.Year == 0 {
		req.Year = now.Year()
	}
}

func (s *AttendanceServiceImpl) summarize(ctx context.Context, req attendance.SummaryRequest) ([]attendance.UserSummary, error) {
	from, to := s.monthRange(req.Year, req.Month)
	totalWorkingDays := workingDays(from, to)

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	present, err := s.AttendanceRepository.CountDaysPresent(ctx, from, to)
	if err != nil {
		return nil, err
	}

	leaves, err := s.leaveRepo.ListApprovedOverlapping(ctx, nil, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leaves: %w", err)
	}
	onLeave := make(map[string]int)
	for _, l := range leaves {
		l.StartDate = s.policy.CalendarDate(l.StartDate)
		l.EndDate = s.policy.CalendarDate(l.EndDate)
		onLeave[l.UserID] += l.OverlapDays(from, to)
	}

	summaries := make([]attendance.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, attendance.UserSummary{
			UserID:           u.ID,
			UserName:         u.DisplayName(),
			UserEmail:        u.Email,
			DaysPresent:      present[u.ID],
			DaysOnLeave:      onLeave[u.ID],
			TotalWorkingDays: totalWorkingDays,
		})
	}
	return summaries, nil
}

// Summary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Summary(ctx context.Context, req attendance.SummaryRequest) ([]attendance.SummaryResponse, error) {
	s.defaultPeriod(&req)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	summaries, err := s.summarize(ctx, req)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.SummaryResponse, 0, len(summaries))
	for _, sum := range summaries {
		responses = append(responses, attendance.SummaryResponse{
			User:             attendance.UserRef{ID: sum.UserID, Name: sum.UserName, Email: sum.UserEmail},
			DaysPresent:      sum.DaysPresent,
			DaysOnLeave:      sum.DaysOnLeave,
			TotalWorkingDays: sum.TotalWorkingDays,
		})
	}
	return responses, nil
}

// ExportSummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ExportSummary(ctx context.Context, req attendance.ExportSummaryRequest) (attendance.ExportFile, error) {
	s.defaultPeriod(&req.SummaryRequest)
	if err := req.Validate(); err != nil {
		return attendance.ExportFile{}, err
	}

	summaries, err := s.summarize(ctx, req.SummaryRequest)
	if err != nil {
		return attendance.ExportFile{}, err
	}

	period := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	report := export.Report{
		Title:    "Attendance Summary",
		Subtitle: period.Format("January 2006"),
		Sheet:    "Summary",
		Headers:  []string{"Name", "Email", "Days Present", "Days On Leave", "Working Days"},
		Rows:     make([][]any, 0, len(summaries)),
	}
	for _, sum := range summaries {
		report.Rows = append(report.Rows, []any{sum.UserName, sum.UserEmail, sum.DaysPresent, sum.DaysOnLeave, sum.TotalWorkingDays})
	}

	filename := fmt.Sprintf("attendance-summary-%04d-%02d.%s", req.Year, req.Month, req.Format)
	switch req.Format {
	case attendance.ExportFormatXLSX:
		content, err := export.XLSX(report)
		if err != nil {
			return attendance.ExportFile{}, fmt.Errorf("failed to render xlsx: %w", err)
		}
		return attendance.ExportFile{Filename: filename, ContentType: export.ContentTypeXLSX, Content: content}, nil
	case attendance.ExportFormatPDF:
		content, err := export.PDF(report)
		if err != nil {
			return attendance.ExportFile{}, fmt.Errorf("failed to render pdf: %w", err)
		}
		return attendance.ExportFile{Filename: filename, ContentType: export.ContentTypePDF, Content: content}, nil
	default:
		return attendance.ExportFile{}, attendance.ErrUnsupportedFormat
	}
}
