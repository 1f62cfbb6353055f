package http

import (
	"errors"

	"cloud.google.com/go/civil"
	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/roomkeeper/internal/app"
	"github.com/neomorfeo/roomkeeper/internal/domain"
)

const prefix = "/api/v1"

// Services groups the application services exposed over HTTP.
type Services struct {
	Bookings *app.BookingService
	Closures *app.ClosureService
	Hotels   *app.HotelService
	Guests   *app.GuestService
}

// Register adds all API routes to the Huma API.
func Register(api huma.API, svc Services) {
	registerHotels(api, svc.Hotels)
	registerGuests(api, svc.Guests)
	registerBookings(api, svc.Bookings)
	registerClosures(api, svc.Closures)
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return huma.Error404NotFound(err.Error())
	}

	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		return huma.Error400BadRequest(valErr.Error())
	}

	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error422UnprocessableEntity(trErr.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}

// parseDate reads an ISO 8601 calendar date. An empty value yields the zero
// date so that the services report missing dates themselves.
func parseDate(field, value string) (civil.Date, error) {
	if value == "" {
		return civil.Date{}, nil
	}
	d, err := civil.ParseDate(value)
	if err != nil {
		return civil.Date{}, &domain.ValidationError{Field: field, Reason: "expected a YYYY-MM-DD date"}
	}
	return d, nil
}

func parseRange(from, to string) (domain.DateRange, error) {
	start, err := parseDate("from", from)
	if err != nil {
		return domain.DateRange{}, err
	}
	end, err := parseDate("to", to)
	if err != nil {
		return domain.DateRange{}, err
	}
	return domain.NewDateRange(start, end), nil
}

func formatDate(d *civil.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
