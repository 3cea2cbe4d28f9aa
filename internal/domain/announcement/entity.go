package announcement

import "time"

// Announcement is a company update shown on the dashboard
type Announcement struct {
	ID        string
	Title     string
	Content   string
	CreatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	CreatedByName *string
}

func (a *Announcement) ToResponse() AnnouncementResponse {
	name := "Admin"
	if a.CreatedByName != nil && *a.CreatedByName != "" {
		name = *a.CreatedByName
	}
	return AnnouncementResponse{
		ID:            a.ID,
		Title:         a.Title,
		Content:       a.Content,
		CreatedBy:     a.CreatedBy,
		CreatedByName: name,
		CreatedAt:     a.CreatedAt,
	}
}
