package holiday

import "errors"

var (
	ErrHolidayNotFound  = errors.New("holiday not found")
	ErrInvalidHolidayID = errors.New("invalid holiday id")
)
