package holiday

import "time"

type Holiday struct {
	ID          string
	Name        string
	Date        time.Time
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (h *Holiday) ToResponse() HolidayResponse {
	return HolidayResponse{
		ID:          h.ID,
		Name:        h.Name,
		Date:        h.Date.Format("2006-01-02"),
		DateDisplay: h.Date.Format("Mon, Jan 2, 2006"),
		Description: h.Description,
		CreatedAt:   h.CreatedAt,
	}
}
