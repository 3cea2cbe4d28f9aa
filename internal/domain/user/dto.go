package user

import (
	"strings"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CreateUserRequest is an admin creating an account with an explicit role.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"max=255"`
	Email    string `json:"email" validate:"required,max=254,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"oneof=admin employee"`
}

func (r *CreateUserRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	if r.Role == "" {
		r.Role = string(RoleEmployee)
	}

	return validator.Struct(r)
}

// UpdateMeRequest edits the caller's own profile. Nil fields are left unchanged;
// changing the password requires the current one.
type UpdateMeRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Email           *string `json:"email,omitempty" validate:"omitempty,max=254,email"`
	Password        *string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
	CurrentPassword string  `json:"current_password,omitempty"`
}

func (r *UpdateMeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
	}

	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
		if email == "" {
			errs = append(errs, validator.ValidationError{
				Field:   "email",
				Message: "email must not be empty",
			})
		}
	}

	if r.Password != nil {
		if *r.Password == "" {
			errs = append(errs, validator.ValidationError{
				Field:   "password",
				Message: "password must not be empty",
			})
		}
		if r.CurrentPassword == "" {
			errs = append(errs, validator.ValidationError{
				Field:   "current_password",
				Message: "current_password is required to change the password",
			})
		}
	}

	if r.Name == nil && r.Email == nil && r.Password == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "at least one of name, email or password is required",
		})
	}

	return validator.Merge(validator.Struct(r), errs)
}
