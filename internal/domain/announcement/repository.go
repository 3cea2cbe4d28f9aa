package announcement

import "context"

type AnnouncementRepository interface {
	Create(ctx context.Context, announcement Announcement) (Announcement, error)
	GetByID(ctx context.Context, id string) (Announcement, error)
	Update(ctx context.Context, announcement Announcement) error
	Delete(ctx context.Context, id string) error
	ListLatest(ctx context.Context, limit int) ([]Announcement, error)
}
