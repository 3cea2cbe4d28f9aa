package user

import "context"

// UserService exposes the user directory
type UserService interface {
	// Me returns the authenticated user
	Me(ctx context.Context) (UserResponse, error)

	// UpdateMe edits the authenticated user's name, email or password
	UpdateMe(ctx context.Context, req UpdateMeRequest) (UserResponse, error)

	// List returns every user (admin)
	List(ctx context.Context) ([]UserResponse, error)

	// Create adds an account with the requested role (admin)
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
}
