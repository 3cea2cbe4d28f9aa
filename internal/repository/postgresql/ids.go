package postgresql

import (
	"time"

	"github.com/google/uuid"
)

// newID returns a time-ordered UUIDv7.
func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// dateParam renders the calendar date of t for DATE columns, independent of the session time zone.
func dateParam(t time.Time) string {
	return t.Format("2006-01-02")
}
