package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
)

const (
	historyLimit = 100

	timeLayout        = "03:04 PM"
	displayDateLayout = "Monday, January 2, 2006"
	dateLayout        = "2006-01-02"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	leaveRepo leave.LeaveRepository
	userRepo  user.UserRepository
	policy    attendance.Policy
	now       func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepository attendance.AttendanceRepository,
	leaveRepository leave.LeaveRepository,
	userRepository user.UserRepository,
	policy attendance.Policy,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepository,
		leaveRepo:            leaveRepository,
		userRepo:             userRepository,
		policy:               policy,
		now:                  time.Now,
	}
}

func (s *AttendanceServiceImpl) today() time.Time {
	return s.policy.Day(s.now())
}

func (s *AttendanceServiceImpl) clock(t time.Time) string {
	return s.policy.In(t).Format(timeLayout)
}

func userRef(a attendance.Attendance) *attendance.UserRef {
	if a.UserName == nil && a.UserEmail == nil {
		return nil
	}
	ref := &attendance.UserRef{ID: a.UserID}
	if a.UserName != nil {
		ref.Name = *a.UserName
	}
	if a.UserEmail != nil {
		ref.Email = *a.UserEmail
	}
	if ref.Name == "" {
		ref.Name = ref.Email
	}
	return ref
}

func (s *AttendanceServiceImpl) toResponse(a attendance.Attendance) attendance.AttendanceResponse {
	status := s.policy.Status(a.CheckIn, a.CheckOut)
	date := s.policy.CalendarDate(a.Date)

	resp := attendance.AttendanceResponse{
		ID:               a.ID,
		User:             userRef(a),
		Date:             date.Format(displayDateLayout),
		DateStr:          date.Format(dateLayout),
		CheckIn:          s.clock(a.CheckIn),
		CheckInRaw:       a.CheckIn,
		CheckOutRaw:      a.CheckOut,
		RecordStatus:     a.RecordStatus(),
		Status:           status.StatusMessage,
		LateBy:           "-",
		IsLate:           status.IsLate,
		LateMinutes:      status.LateMinutes,
		TotalWorkMinutes: status.TotalWorkMinutes,
	}
	if a.CheckOut != nil {
		resp.CheckOut = s.clock(*a.CheckOut)
	}
	if status.LateByFormatted != nil {
		resp.LateBy = *status.LateByFormatted
	}
	return resp
}

func (s *AttendanceServiceImpl) toResponses(records []attendance.Attendance) []attendance.AttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, s.toResponse(r))
	}
	return responses
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context) (attendance.AttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now()
	var created attendance.Attendance
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.AttendanceRepository.GetByUserAndDate(txCtx, claims.UserID, s.policy.Day(now))
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		if existing != nil {
			return attendance.ErrAlreadyCheckedIn
		}

		created, err = s.AttendanceRepository.Create(txCtx, attendance.Attendance{
			UserID:  claims.UserID,
			Date:    s.policy.Day(now),
			CheckIn: now,
		})
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	created.UserName, created.UserEmail = &claims.Name, &claims.Email
	return s.toResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context) (attendance.AttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now()
	var record attendance.Attendance
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.AttendanceRepository.GetByUserAndDate(txCtx, claims.UserID, s.policy.Day(now))
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		if existing == nil {
			return attendance.ErrNotCheckedIn
		}
		if existing.CheckOut != nil {
			return attendance.ErrAlreadyCheckedOut
		}

		record = *existing
		record.CheckOut = &now
		record.Status = record.RecordStatus()
		return s.AttendanceRepository.Update(txCtx, record)
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return s.toResponse(record), nil
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context) (attendance.TodayResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	record, err := s.AttendanceRepository.GetByUserAndDate(ctx, claims.UserID, s.today())
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if record == nil {
		return attendance.TodayResponse{}, nil
	}

	resp := s.toResponse(*record)
	checkIn := record.CheckIn
	return attendance.TodayResponse{
		CheckedIn:   record.CheckOut == nil,
		CheckInTime: &checkIn,
		Record:      &resp,
	}, nil
}

// History implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) History(ctx context.Context) ([]attendance.AttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.AttendanceRepository.ListByUser(ctx, claims.UserID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance history: %w", err)
	}
	return s.toResponses(records), nil
}

// InOffice implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) InOffice(ctx context.Context) ([]attendance.InOfficeResponse, error) {
	records, err := s.AttendanceRepository.ListByDate(ctx, s.today(), true)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees in office: %w", err)
	}

	responses := make([]attendance.InOfficeResponse, 0, len(records))
	for _, r := range records {
		status := s.policy.Status(r.CheckIn, r.CheckOut)
		responses = append(responses, attendance.InOfficeResponse{
			ID:          r.ID,
			User:        userRef(r),
			CheckIn:     s.clock(r.CheckIn),
			CheckInRaw:  r.CheckIn,
			Status:      status.StatusMessage,
			IsLate:      status.IsLate,
			LateMinutes: status.LateMinutes,
		})
	}
	return responses, nil
}

// LateToday implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) LateToday(ctx context.Context) ([]attendance.LateArrivalResponse, error) {
	records, err := s.AttendanceRepository.ListByDate(ctx, s.today(), false)
	if err != nil {
		return nil, fmt.Errorf("failed to list today's attendance: %w", err)
	}

	responses := make([]attendance.LateArrivalResponse, 0)
	for _, r := range records {
		status := s.policy.Status(r.CheckIn, r.CheckOut)
		if !status.IsLate {
			continue
		}
		responses = append(responses, attendance.LateArrivalResponse{
			ID:      r.ID,
			User:    userRef(r),
			CheckIn: s.clock(r.CheckIn),
			LateBy:  status.LateByFormatted,
			IsLate:  true,
		})
	}
	return responses, nil
}

// ListRecords implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListRecords(ctx context.Context, filter attendance.RecordFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	if filter.Month != nil && filter.Year != nil {
		from, to := s.monthRange(*filter.Year, *filter.Month)
		filter.From, filter.To = &from, &to
	}

	records, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	return s.toResponses(records), nil
}

// UpdateRecord implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateRecord(ctx context.Context, req attendance.UpdateRecordRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(s.policy.Zone()); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	changes, err := req.Changes(s.policy.Zone())
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var record attendance.Attendance
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		record, err = s.AttendanceRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		if changes.CheckIn != nil {
			record.CheckIn = *changes.CheckIn
		}
		switch {
		case changes.ClearCheckOut:
			record.CheckOut = nil
		case changes.CheckOut != nil:
			record.CheckOut = changes.CheckOut
		}
		record.Status = record.RecordStatus()

		return s.AttendanceRepository.Update(txCtx, record)
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return s.toResponse(record), nil
}
