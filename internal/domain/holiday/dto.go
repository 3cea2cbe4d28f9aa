package holiday

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

type HolidayFilter struct {
	Year *int `json:"year,omitempty"`
}

type CreateHolidayRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Date        string `json:"date" validate:"required"`
	Description string `json:"description"`

	// Parsed by Validate
	Day time.Time `json:"-"`
}

func (r *CreateHolidayRequest) Validate(loc *time.Location) error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Date = strings.TrimSpace(r.Date)

	var dateErrs validator.ValidationErrors
	if r.Date != "" {
		day, ok := validator.ParseDay(r.Date, loc)
		if !ok {
			dateErrs = append(dateErrs, validator.ValidationError{
				Field:   "date",
				Message: "Invalid date format",
			})
		}
		r.Day = day
	}
	return validator.Merge(validator.Struct(r), dateErrs)
}

type UpdateHolidayRequest struct {
	ID          string  `json:"-"`
	Name        *string `json:"name,omitempty"`
	Date        *string `json:"date,omitempty"`
	Description *string `json:"description,omitempty"`

	// Parsed by Validate
	Day *time.Time `json:"-"`
}

func (r *UpdateHolidayRequest) Validate(loc *time.Location) error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		return ErrInvalidHolidayID
	}

	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
		if name == "" {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		}
	}

	if r.Date != nil {
		day, ok := validator.ParseDay(*r.Date, loc)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "Invalid date format",
			})
		} else {
			r.Day = &day
		}
	}

	if r.Description != nil {
		description := strings.TrimSpace(*r.Description)
		r.Description = &description
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type HolidayResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Date        string    `json:"date"`
	DateDisplay string    `json:"date_display"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
