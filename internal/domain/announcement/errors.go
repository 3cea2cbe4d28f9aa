package announcement

import "errors"

var (
	ErrAnnouncementNotFound  = errors.New("update not found")
	ErrInvalidAnnouncementID = errors.New("invalid update id")
)
