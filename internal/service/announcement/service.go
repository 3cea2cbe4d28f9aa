package announcement

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/announcement"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

const latestLimit = 20

type AnnouncementServiceImpl struct {
	tx database.Transactor
	announcement.AnnouncementRepository
	hub *sse.Hub
}

func NewAnnouncementService(tx database.Transactor, announcementRepository announcement.AnnouncementRepository, hub *sse.Hub) announcement.AnnouncementService {
	return &AnnouncementServiceImpl{
		tx:                     tx,
		AnnouncementRepository: announcementRepository,
		hub:                    hub,
	}
}

// List implements announcement.AnnouncementService.
func (s *AnnouncementServiceImpl) List(ctx context.Context) ([]announcement.AnnouncementResponse, error) {
	announcements, err := s.AnnouncementRepository.ListLatest(ctx, latestLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list updates: %w", err)
	}

	responses := make([]announcement.AnnouncementResponse, 0, len(announcements))
	for _, a := range announcements {
		responses = append(responses, a.ToResponse())
	}
	return responses, nil
}

// Create implements announcement.AnnouncementService.
func (s *AnnouncementServiceImpl) Create(ctx context.Context, req announcement.CreateAnnouncementRequest) (announcement.AnnouncementResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return announcement.AnnouncementResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return announcement.AnnouncementResponse{}, err
	}

	created, err := s.AnnouncementRepository.Create(ctx, announcement.Announcement{
		Title:     req.Title,
		Content:   req.Content,
		CreatedBy: &claims.UserID,
	})
	if err != nil {
		return announcement.AnnouncementResponse{}, fmt.Errorf("failed to create update: %w", err)
	}
	created.CreatedByName = &claims.Name

	resp := created.ToResponse()
	if s.hub != nil {
		s.hub.Broadcast(sse.Event{
			Event: sse.EventAnnouncementCreated,
			Data:  resp,
		})
	}
	return resp, nil
}

// Update implements announcement.AnnouncementService.
func (s *AnnouncementServiceImpl) Update(ctx context.Context, req announcement.UpdateAnnouncementRequest) (announcement.AnnouncementResponse, error) {
	if err := req.Validate(); err != nil {
		return announcement.AnnouncementResponse{}, err
	}

	var updated announcement.Announcement
	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		existing, err := s.AnnouncementRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		if req.Title != nil {
			existing.Title = *req.Title
		}
		if req.Content != nil {
			existing.Content = *req.Content
		}

		if err := s.AnnouncementRepository.Update(txCtx, existing); err != nil {
			return err
		}
		updated, err = s.AnnouncementRepository.GetByID(txCtx, req.ID)
		return err
	})
	if err != nil {
		return announcement.AnnouncementResponse{}, err
	}
	return updated.ToResponse(), nil
}

// Delete implements announcement.AnnouncementService.
func (s *AnnouncementServiceImpl) Delete(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return announcement.ErrInvalidAnnouncementID
	}
	return s.AnnouncementRepository.Delete(ctx, id)
}
