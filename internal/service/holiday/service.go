package holiday

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

const upcomingLimit = 10

type HolidayServiceImpl struct {
	tx database.Transactor
	holiday.HolidayRepository
	policy attendance.Policy
	now    func() time.Time
}

func NewHolidayService(tx database.Transactor, holidayRepository holiday.HolidayRepository, policy attendance.Policy) holiday.HolidayService {
	return &HolidayServiceImpl{
		tx:                tx,
		HolidayRepository: holidayRepository,
		policy:            policy,
		now:               time.Now,
	}
}

func (s *HolidayServiceImpl) toResponse(h holiday.Holiday) holiday.HolidayResponse {
	h.Date = s.policy.CalendarDate(h.Date)
	return h.ToResponse()
}

func (s *HolidayServiceImpl) toResponses(holidays []holiday.Holiday) []holiday.HolidayResponse {
	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, s.toResponse(h))
	}
	return responses
}

// List implements holiday.HolidayService.
func (s *HolidayServiceImpl) List(ctx context.Context, filter holiday.HolidayFilter) ([]holiday.HolidayResponse, error) {
	var from, to *time.Time
	if filter.Year != nil {
		if *filter.Year < 1970 || *filter.Year > 9999 {
			return nil, validator.ValidationErrors{{Field: "year", Message: "year must be between 1970 and 9999"}}
		}
		first := s.policy.CalendarDate(time.Date(*filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC))
		last := s.policy.CalendarDate(time.Date(*filter.Year, time.December, 31, 0, 0, 0, 0, time.UTC))
		from, to = &first, &last
	}

	holidays, err := s.HolidayRepository.List(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return s.toResponses(holidays), nil
}

// Upcoming implements holiday.HolidayService.
func (s *HolidayServiceImpl) Upcoming(ctx context.Context) ([]holiday.HolidayResponse, error) {
	holidays, err := s.HolidayRepository.Upcoming(ctx, s.policy.Day(s.now()), upcomingLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming holidays: %w", err)
	}
	return s.toResponses(holidays), nil
}

// Create implements holiday.HolidayService.
func (s *HolidayServiceImpl) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(s.policy.Zone()); err != nil {
		return holiday.HolidayResponse{}, err
	}

	created, err := s.HolidayRepository.Create(ctx, holiday.Holiday{
		Name:        req.Name,
		Date:        req.Day,
		Description: req.Description,
	})
	if err != nil {
		return holiday.HolidayResponse{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return s.toResponse(created), nil
}

// Update implements holiday.HolidayService.
func (s *HolidayServiceImpl) Update(ctx context.Context, req holiday.UpdateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(s.policy.Zone()); err != nil {
		return holiday.HolidayResponse{}, err
	}

	var updated holiday.Holiday
	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.HolidayRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			existing.Name = *req.Name
		}
		if req.Day != nil {
			existing.Date = *req.Day
		}
		if req.Description != nil {
			existing.Description = *req.Description
		}

		updated, err = s.HolidayRepository.Update(txCtx, existing)
		return err
	})
	if err != nil {
		return holiday.HolidayResponse{}, err
	}
	return s.toResponse(updated), nil
}

// Delete implements holiday.HolidayService.
func (s *HolidayServiceImpl) Delete(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return holiday.ErrInvalidHolidayID
	}
	return s.HolidayRepository.Delete(ctx, id)
}
