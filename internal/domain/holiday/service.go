package holiday

import "context"

type HolidayService interface {
	List(ctx context.Context, filter HolidayFilter) ([]HolidayResponse, error)
	Upcoming(ctx context.Context) ([]HolidayResponse, error)
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	Update(ctx context.Context, req UpdateHolidayRequest) (HolidayResponse, error)
	Delete(ctx context.Context, id string) error
}
