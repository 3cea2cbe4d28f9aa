package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrCurrentPasswordMismatch = errors.New("current password is incorrect")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
