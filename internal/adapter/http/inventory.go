package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/roomkeeper/internal/app"
	"github.com/neomorfeo/roomkeeper/internal/domain"
)

// HotelResponse is the API representation of a hotel.
type HotelResponse struct {
	ID      string `json:"id" doc:"Unique identifier"`
	Name    string `json:"name" doc:"Display name"`
	Address string `json:"address" doc:"Street address"`
	City    string `json:"city" doc:"City"`
}

func toHotelResponse(h domain.Hotel) HotelResponse {
	return HotelResponse{ID: h.ID, Name: h.Name, Address: h.Address, City: h.City}
}

// RoomResponse is the API representation of a room.
type RoomResponse struct {
	ID          string  `json:"id" doc:"Unique identifier"`
	HotelID     string  `json:"hotel_id" doc:"Owning hotel"`
	Name        string  `json:"name" doc:"Room name or number"`
	Description string  `json:"description" doc:"Free text"`
	BasePrice   float64 `json:"base_price" doc:"Nightly list price"`
	Status      string  `json:"status" doc:"Housekeeping state"`
	LastCleaned *string `json:"last_cleaned,omitempty" doc:"Day the room was last cleaned (YYYY-MM-DD)"`
}

func toRoomResponse(r domain.Room) RoomResponse {
	return RoomResponse{
		ID:          r.ID,
		HotelID:     r.HotelID,
		Name:        r.Name,
		Description: r.Description,
		BasePrice:   r.BasePrice,
		Status:      string(r.Status),
		LastCleaned: formatDate(r.LastCleaned),
	}
}

func toRoomResponses(rooms []domain.Room) []RoomResponse {
	resp := make([]RoomResponse, len(rooms))
	for i, r := range rooms {
		resp[i] = toRoomResponse(r)
	}
	return resp
}

// GuestResponse is the API representation of a guest.
type GuestResponse struct {
	ID          string  `json:"id" doc:"Unique identifier"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	SSN         string  `json:"ssn,omitempty" doc:"National identification number"`
	DateOfBirth *string `json:"date_of_birth,omitempty" doc:"YYYY-MM-DD"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
}

func toGuestResponse(g domain.Guest) GuestResponse {
	return GuestResponse{
		ID:          g.ID,
		FirstName:   g.FirstName,
		LastName:    g.LastName,
		SSN:         g.SSN,
		DateOfBirth: formatDate(g.DateOfBirth),
		Address:     g.Address,
		City:        g.City,
	}
}

// --- Hotels ---

type SaveHotelInput struct {
	Body struct {
		ID      string `json:"id,omitempty" doc:"Set to replace an existing hotel"`
		Name    string `json:"name" maxLength:"255" doc:"Display name"`
		Address string `json:"address,omitempty"`
		City    string `json:"city,omitempty"`
	}
}

type HotelOutput struct {
	Body HotelResponse
}

type HotelIDInput struct {
	ID string `path:"id" doc:"Hotel ID"`
}

type ListHotelsOutput struct {
	Body []HotelResponse
}

type FreeRoomsInput struct {
	ID   string `path:"id" doc:"Hotel ID"`
	From string `query:"from" required:"false" doc:"Arrival day (YYYY-MM-DD)"`
	To   string `query:"to" required:"false" doc:"Departure day (YYYY-MM-DD)"`
}

type RoomsOutput struct {
	Body []RoomResponse
}

// --- Rooms ---

type roomBody struct {
	HotelID     string  `json:"hotel_id" doc:"Owning hotel"`
	Name        string  `json:"name" maxLength:"100" doc:"Room name or number"`
	Description string  `json:"description,omitempty"`
	BasePrice   float64 `json:"base_price,omitempty" doc:"Nightly list price"`
}

func (b roomBody) toDomain(id string) domain.Room {
	return domain.Room{
		ID:          id,
		HotelID:     b.HotelID,
		Name:        b.Name,
		Description: b.Description,
		BasePrice:   b.BasePrice,
	}
}

type CreateRoomInput struct {
	Body roomBody
}

type UpdateRoomInput struct {
	ID   string `path:"id" doc:"Room ID"`
	Body roomBody
}

type RoomIDInput struct {
	ID string `path:"id" doc:"Room ID"`
}

type RoomOutput struct {
	Body RoomResponse
}

// --- Guests ---

type SaveGuestInput struct {
	Body struct {
		ID          string `json:"id,omitempty" doc:"Set to replace an existing guest"`
		FirstName   string `json:"first_name" maxLength:"100"`
		LastName    string `json:"last_name" maxLength:"100"`
		SSN         string `json:"ssn,omitempty"`
		DateOfBirth string `json:"date_of_birth,omitempty" doc:"YYYY-MM-DD"`
		Address     string `json:"address,omitempty"`
		City        string `json:"city,omitempty"`
	}
}

type GuestIDInput struct {
	ID string `path:"id" doc:"Guest ID"`
}

type GuestOutput struct {
	Body GuestResponse
}

type ListGuestsOutput struct {
	Body []GuestResponse
}

func registerHotels(api huma.API, svc *app.HotelService) {
	huma.Register(api, huma.Operation{
		OperationID: "save-hotel",
		Method:      http.MethodPost,
		Path:        prefix + "/hotels",
		Summary:     "Create or replace a hotel",
		Tags:        []string{"Hotels"},
	}, func(ctx context.Context, input *SaveHotelInput) (*HotelOutput, error) {
		hotel, err := svc.SaveHotel(ctx, domain.Hotel{
			ID:      input.Body.ID,
			Name:    input.Body.Name,
			Address: input.Body.Address,
			City:    input.Body.City,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &HotelOutput{Body: toHotelResponse(hotel)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-hotels",
		Method:      http.MethodGet,
		Path:        prefix + "/hotels",
		Summary:     "List hotels",
		Tags:        []string{"Hotels"},
	}, func(ctx context.Context, _ *struct{}) (*ListHotelsOutput, error) {
		hotels, err := svc.ListHotels(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]HotelResponse, len(hotels))
		for i, h := range hotels {
			resp[i] = toHotelResponse(h)
		}
		return &ListHotelsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-hotel",
		Method:      http.MethodGet,
		Path:        prefix + "/hotels/{id}",
		Summary:     "Get a hotel by ID",
		Tags:        []string{"Hotels"},
	}, func(ctx context.Context, input *HotelIDInput) (*HotelOutput, error) {
		hotel, err := svc.GetHotel(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &HotelOutput{Body: toHotelResponse(hotel)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-hotel-rooms",
		Method:      http.MethodGet,
		Path:        prefix + "/hotels/{id}/rooms",
		Summary:     "List the rooms of a hotel",
		Tags:        []string{"Rooms"},
	}, func(ctx context.Context, input *HotelIDInput) (*RoomsOutput, error) {
		rooms, err := svc.ListRooms(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &RoomsOutput{Body: toRoomResponses(rooms)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "find-free-rooms",
		Method:      http.MethodGet,
		Path:        prefix + "/hotels/{id}/free-rooms",
		Summary:     "List rooms with no booking during a stay",
		Tags:        []string{"Rooms"},
	}, func(ctx context.Context, input *FreeRoomsInput) (*RoomsOutput, error) {
		stay, err := parseRange(input.From, input.To)
		if err != nil {
			return nil, toHumaError(err)
		}
		rooms, err := svc.FindFreeRooms(ctx, input.ID, stay)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &RoomsOutput{Body: toRoomResponses(rooms)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-room",
		Method:      http.MethodPost,
		Path:        prefix + "/rooms",
		Summary:     "Create a room",
		Tags:        []string{"Rooms"},
	}, func(ctx context.Context, input *CreateRoomInput) (*RoomOutput, error) {
		room, err := svc.SaveRoom(ctx, input.Body.toDomain(""))
		if err != nil {
			return nil, toHumaError(err)
		}
		return &RoomOutput{Body: toRoomResponse(room)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-room",
		Method:      http.MethodPut,
		Path:        prefix + "/rooms/{id}",
		Summary:     "Create or update a room",
		Description: "Housekeeping status and last-cleaned date are kept on update.",
		Tags:        []string{"Rooms"},
	}, func(ctx context.Context, input *UpdateRoomInput) (*RoomOutput, error) {
		room, err := svc.SaveRoom(ctx, input.Body.toDomain(input.ID))
		if err != nil {
			return nil, toHumaError(err)
		}
		return &RoomOutput{Body: toRoomResponse(room)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-room",
		Method:      http.MethodGet,
		Path:        prefix + "/rooms/{id}",
		Summary:     "Get a room by ID",
		Tags:        []string{"Rooms"},
	}, func(ctx context.Context, input *RoomIDInput) (*RoomOutput, error) {
		room, err := svc.GetRoom(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &RoomOutput{Body: toRoomResponse(room)}, nil
	})
}

func registerGuests(api huma.API, svc *app.GuestService) {
	huma.Register(api, huma.Operation{
		OperationID: "save-guest",
		Method:      http.MethodPost,
		Path:        prefix + "/guests",
		Summary:     "Create or replace a guest",
		Tags:        []string{"Guests"},
	}, func(ctx context.Context, input *SaveGuestInput) (*GuestOutput, error) {
		guest := domain.Guest{
			ID:        input.Body.ID,
			FirstName: input.Body.FirstName,
			LastName:  input.Body.LastName,
			SSN:       input.Body.SSN,
			Address:   input.Body.Address,
			City:      input.Body.City,
		}
		if input.Body.DateOfBirth != "" {
			dob, err := parseDate("date_of_birth", input.Body.DateOfBirth)
			if err != nil {
				return nil, toHumaError(err)
			}
			guest.DateOfBirth = &dob
		}

		saved, err := svc.Save(ctx, guest)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GuestOutput{Body: toGuestResponse(saved)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-guests",
		Method:      http.MethodGet,
		Path:        prefix + "/guests",
		Summary:     "List guests",
		Tags:        []string{"Guests"},
	}, func(ctx context.Context, _ *struct{}) (*ListGuestsOutput, error) {
		guests, err := svc.List(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]GuestResponse, len(guests))
		for i, g := range guests {
			resp[i] = toGuestResponse(g)
		}
		return &ListGuestsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-guest",
		Method:      http.MethodGet,
		Path:        prefix + "/guests/{id}",
		Summary:     "Get a guest by ID",
		Tags:        []string{"Guests"},
	}, func(ctx context.Context, input *GuestIDInput) (*GuestOutput, error) {
		guest, err := svc.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GuestOutput{Body: toGuestResponse(guest)}, nil
	})
}
