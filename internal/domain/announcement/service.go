package announcement

import "context"

type AnnouncementService interface {
	List(ctx context.Context) ([]AnnouncementResponse, error)
	Create(ctx context.Context, req CreateAnnouncementRequest) (AnnouncementResponse, error)
	Update(ctx context.Context, req UpdateAnnouncementRequest) (AnnouncementResponse, error)
	Delete(ctx context.Context, id string) error
}
