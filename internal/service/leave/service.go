package leave

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
)

const (
	myLeavesLimit = 100
	dateLayout    = "2006-01-02"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveRepository
	userRepo      user.UserRepository
	hub           *sse.Hub
	mailer        email.EmailService
	policy        attendance.Policy
	casualPerYear int
	now           func() time.Time

	// outstanding review emails
	pending sync.WaitGroup
}

func NewLeaveService(
	tx database.Transactor,
	leaveRepository leave.LeaveRepository,
	userRepository user.UserRepository,
	hub *sse.Hub,
	mailer email.EmailService,
	policy attendance.Policy,
	casualPerYear int,
) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		tx:              tx,
		LeaveRepository: leaveRepository,
		userRepo:        userRepository,
		hub:             hub,
		mailer:          mailer,
		policy:          policy,
		casualPerYear:   casualPerYear,
		now:             time.Now,
	}
}

func (s *LeaveServiceImpl) toResponse(l leave.Leave) leave.LeaveResponse {
	l.StartDate = s.policy.CalendarDate(l.StartDate)
	l.EndDate = s.policy.CalendarDate(l.EndDate)

	resp := leave.LeaveResponse{
		ID:           l.ID,
		Type:         string(l.Type),
		StartDate:    l.StartDate,
		EndDate:      l.EndDate,
		StartDateStr: l.StartDate.Format(dateLayout),
		EndDateStr:   l.EndDate.Format(dateLayout),
		Reason:       l.Reason,
		Status:       string(l.Status),
		Days:         l.Days(),
		AdminNote:    l.AdminNote,
		ReviewedAt:   l.ReviewedAt,
		CreatedAt:    l.CreatedAt,
	}
	if l.UserName != nil || l.UserEmail != nil {
		resp.User = &leave.LeaveUser{ID: l.UserID}
		if l.UserEmail != nil {
			resp.User.Email = *l.UserEmail
		}
		if l.UserName != nil && *l.UserName != "" {
			resp.User.Name = *l.UserName
		} else {
			resp.User.Name = resp.User.Email
		}
	}
	return resp
}

func (s *LeaveServiceImpl) toResponses(leaves []leave.Leave) []leave.LeaveResponse {
	responses := make([]leave.LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		responses = append(responses, s.toResponse(l))
	}
	return responses
}

// Create implements leave.LeaveService.
func (s *LeaveServiceImpl) Create(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	if err := req.Validate(s.policy.Zone()); err != nil {
		return leave.LeaveResponse{}, err
	}

	created, err := s.LeaveRepository.Create(ctx, leave.Leave{
		UserID:    claims.UserID,
		Type:      leave.Type(req.Type),
		StartDate: req.Start,
		EndDate:   req.End,
		Reason:    req.Reason,
		Status:    leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return s.toResponse(created), nil
}

// MyLeaves implements leave.LeaveService.
func (s *LeaveServiceImpl) MyLeaves(ctx context.Context) ([]leave.LeaveResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	leaves, err := s.LeaveRepository.ListByUser(ctx, claims.UserID, myLeavesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return s.toResponses(leaves), nil
}

// MyStats implements leave.LeaveService.
func (s *LeaveServiceImpl) MyStats(ctx context.Context) (leave.LeaveStatsResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveStatsResponse{}, err
	}

	year := s.policy.In(s.now()).Year()
	from := s.policy.CalendarDate(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
	to := s.policy.CalendarDate(time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC))

	approved, err := s.LeaveRepository.ListApprovedOverlapping(ctx, &claims.UserID, from, to)
	if err != nil {
		return leave.LeaveStatsResponse{}, fmt.Errorf("failed to list approved leaves: %w", err)
	}
	used := 0
	for _, l := range approved {
		l.StartDate = s.policy.CalendarDate(l.StartDate)
		l.EndDate = s.policy.CalendarDate(l.EndDate)
		used += l.OverlapDays(from, to)
	}

	pendingCount, err := s.LeaveRepository.CountPending(ctx, claims.UserID)
	if err != nil {
		return leave.LeaveStatsResponse{}, fmt.Errorf("failed to count pending leaves: %w", err)
	}

	return leave.LeaveStatsResponse{
		TotalBalance: s.casualPerYear,
		UsedThisYear: used,
		Remaining:    max(s.casualPerYear-used, 0),
		PendingCount: pendingCount,
	}, nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var status *leave.Status
	if filter.Status != nil {
		st := leave.Status(*filter.Status)
		status = &st
	}

	leaves, err := s.LeaveRepository.List(ctx, status, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return s.toResponses(leaves), nil
}

// Review implements leave.LeaveService.
func (s *LeaveServiceImpl) Review(ctx context.Context, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	var reviewed leave.Leave
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		reviewed, err = s.LeaveRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		if !reviewed.IsPending() {
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		now := s.now()
		reviewed.Status = leave.StatusRejected
		if req.Action == leave.ActionApprove {
			reviewed.Status = leave.StatusApproved
		}
		reviewed.ReviewedBy = &claims.UserID
		reviewed.ReviewedAt = &now
		reviewed.AdminNote = req.AdminNote

		return s.LeaveRepository.UpdateReview(txCtx, reviewed)
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	resp := s.toResponse(reviewed)
	if s.hub != nil {
		s.hub.Publish(reviewed.UserID, sse.Event{
			UserID: reviewed.UserID,
			Event:  sse.EventLeaveReviewed,
			Data:   resp,
		})
	}
	s.notifyOwner(resp)

	return resp, nil
}

// notifyOwner emails the review outcome without blocking the request.
func (s *LeaveServiceImpl) notifyOwner(resp leave.LeaveResponse) {
	if s.mailer == nil || resp.User == nil || resp.User.Email == "" {
		return
	}

	data := email.LeaveReviewedData{
		EmployeeName: resp.User.Name,
		LeaveType:    resp.Type,
		StartDate:    resp.StartDateStr,
		EndDate:      resp.EndDateStr,
		Days:         resp.Days,
		Status:       resp.Status,
		AdminNote:    resp.AdminNote,
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.mailer.SendLeaveReviewed(resp.User.Email, data); err != nil {
			slog.Error("failed to send leave review email",
				"leave_id", resp.ID,
				"to", resp.User.Email,
				"error", err,
			)
		}
	}()
}

// Wait blocks until queued review emails are sent.
func (s *LeaveServiceImpl) Wait() {
	s.pending.Wait()
}

var _ leave.LeaveService = (*LeaveServiceImpl)(nil)

