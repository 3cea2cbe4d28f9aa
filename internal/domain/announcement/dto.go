package announcement

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type CreateAnnouncementRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content"`
}

func (r *CreateAnnouncementRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)

	return validator.Struct(r)
}

type UpdateAnnouncementRequest struct {
	ID      string  `json:"-"`
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

func (r *UpdateAnnouncementRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		return ErrInvalidAnnouncementID
	}

	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		r.Title = &title
		if title == "" {
			errs = append(errs, validator.ValidationError{
				Field:   "title",
				Message: "Title is required",
			})
		}
	}

	if r.Content != nil {
		content := strings.TrimSpace(*r.Content)
		r.Content = &content
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AnnouncementResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	CreatedBy     *string   `json:"created_by"`
	CreatedByName string    `json:"created_by_name"`
	CreatedAt     time.Time `json:"created_at"`
}
