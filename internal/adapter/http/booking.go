package http

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/roomkeeper/internal/app"
	"github.com/neomorfeo/roomkeeper/internal/domain"
)

// BookingResponse is the API representation of a booking.
type BookingResponse struct {
	ID        string `json:"id" doc:"Unique identifier"`
	GuestID   string `json:"guest_id" doc:"Guest the room is booked for"`
	RoomID    string `json:"room_id" doc:"Booked room"`
	CheckIn   string `json:"check_in" doc:"Arrival day (YYYY-MM-DD)"`
	CheckOut  string `json:"check_out" doc:"Departure day (YYYY-MM-DD)"`
	Price     int    `json:"price" doc:"Agreed price"`
	Notes     string `json:"notes" doc:"Free text"`
	Status    string `json:"status" doc:"Lifecycle state"`
	CreatedAt string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toBookingResponse(b domain.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		GuestID:   b.GuestID,
		RoomID:    b.RoomID,
		CheckIn:   b.CheckIn.String(),
		CheckOut:  b.CheckOut.String(),
		Price:     b.Price,
		Notes:     b.Notes,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.Format(time.RFC3339),
	}
}

// --- Save Booking ---

type bookingBody struct {
	GuestID  string `json:"guest_id" doc:"Guest the room is booked for"`
	RoomID   string `json:"room_id" doc:"Booked room"`
	CheckIn  string `json:"check_in" doc:"Arrival day (YYYY-MM-DD)"`
	CheckOut string `json:"check_out" doc:"Departure day (YYYY-MM-DD)"`
	Price    int    `json:"price,omitempty" doc:"Agreed price"`
	Notes    string `json:"notes,omitempty"`
	Status   string `json:"status,omitempty" enum:"PENDING,CHECKED_IN,CHECKED_OUT,COMPLETE,CANCELED" doc:"Defaults to PENDING for new bookings and to the stored status otherwise"`
}

func (b bookingBody) toDomain(id string) (domain.Booking, error) {
	checkIn, err := parseDate("check_in", b.CheckIn)
	if err != nil {
		return domain.Booking{}, err
	}
	checkOut, err := parseDate("check_out", b.CheckOut)
	if err != nil {
		return domain.Booking{}, err
	}
	return domain.Booking{
		ID:       id,
		GuestID:  b.GuestID,
		RoomID:   b.RoomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Price:    b.Price,
		Notes:    b.Notes,
		Status:   domain.BookingStatus(b.Status),
	}, nil
}

type CreateBookingInput struct {
	Body bookingBody
}

type UpdateBookingInput struct {
	ID   string `path:"id" doc:"Booking ID"`
	Body bookingBody
}

type BookingOutput struct {
	Body BookingResponse
}

// --- Get / Delete / Transition ---

type BookingIDInput struct {
	ID string `path:"id" doc:"Booking ID"`
}

// --- Listings ---

type HotelBookingsInput struct {
	ID string `path:"id" doc:"Hotel ID"`
}

type ListBookingsOutput struct {
	Body []BookingResponse
}

func toBookingResponses(bookings []domain.Booking) []BookingResponse {
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toBookingResponse(b)
	}
	return resp
}

func registerBookings(api huma.API, svc *app.BookingService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-booking",
		Method:      http.MethodPost,
		Path:        prefix + "/bookings",
		Summary:     "Create a booking",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *CreateBookingInput) (*BookingOutput, error) {
		booking, err := input.Body.toDomain("")
		if err != nil {
			return nil, toHumaError(err)
		}
		saved, err := svc.Save(ctx, booking)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &BookingOutput{Body: toBookingResponse(saved)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-booking",
		Method:      http.MethodPut,
		Path:        prefix + "/bookings/{id}",
		Summary:     "Create or replace a booking",
		Description: "Administrative write: the status is stored as sent, without going through the lifecycle.",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *UpdateBookingInput) (*BookingOutput, error) {
		booking, err := input.Body.toDomain(input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		saved, err := svc.Save(ctx, booking)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &BookingOutput{Body: toBookingResponse(saved)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-booking",
		Method:      http.MethodGet,
		Path:        prefix + "/bookings/{id}",
		Summary:     "Get a booking by ID",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *BookingIDInput) (*BookingOutput, error) {
		booking, err := svc.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &BookingOutput{Body: toBookingResponse(booking)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-booking",
		Method:      http.MethodDelete,
		Path:        prefix + "/bookings/{id}",
		Summary:     "Delete a booking",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *BookingIDInput) (*struct{}, error) {
		if err := svc.Delete(ctx, input.ID); err != nil {
			return nil, toHumaError(err)
		}
		return nil, nil
	})

	listings := []struct {
		id, path, summary string
		list              func(context.Context, string) ([]domain.Booking, error)
	}{
		{"list-hotel-bookings", "/hotels/{id}/bookings", "List the bookings of a hotel", svc.ListByHotel},
		{"list-arrivals", "/hotels/{id}/arrivals", "List bookings checking in today", svc.TodaysArrivals},
		{"list-departures", "/hotels/{id}/departures", "List bookings checking out today", svc.TodaysDepartures},
	}
	for _, l := range listings {
		huma.Register(api, huma.Operation{
			OperationID: l.id,
			Method:      http.MethodGet,
			Path:        prefix + l.path,
			Summary:     l.summary,
			Tags:        []string{"Bookings"},
		}, func(ctx context.Context, input *HotelBookingsInput) (*ListBookingsOutput, error) {
			bookings, err := l.list(ctx, input.ID)
			if err != nil {
				return nil, toHumaError(err)
			}
			return &ListBookingsOutput{Body: toBookingResponses(bookings)}, nil
		})
	}

	transitions := []struct {
		id, path, summary string
		apply             func(context.Context, string) (domain.Booking, error)
	}{
		{"checkin-booking", "/bookings/{id}/checkin", "Check the guest in", svc.Accept},
		{"cancel-booking", "/bookings/{id}/cancel", "Cancel a pending booking", svc.Cancel},
		{"checkout-booking", "/bookings/{id}/checkout", "Check the guest out", svc.Checkout},
		{"complete-booking", "/bookings/{id}/complete", "Close the stay once the room is clean", svc.Complete},
	}
	for _, tr := range transitions {
		huma.Register(api, huma.Operation{
			OperationID: tr.id,
			Method:      http.MethodPost,
			Path:        prefix + tr.path,
			Summary:     tr.summary,
			Tags:        []string{"Bookings"},
		}, func(ctx context.Context, input *BookingIDInput) (*BookingOutput, error) {
			booking, err := tr.apply(ctx, input.ID)
			if err != nil {
				return nil, toHumaError(err)
			}
			return &BookingOutput{Body: toBookingResponse(booking)}, nil
		})
	}
}
