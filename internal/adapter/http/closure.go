package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/neomorfeo/roomkeeper/internal/app"
	"github.com/neomorfeo/roomkeeper/internal/domain"
)

// ClosureResponse is the API representation of a closure period.
type ClosureResponse struct {
	ID      string `json:"id" doc:"Unique identifier"`
	HotelID string `json:"hotel_id" doc:"Closed hotel"`
	Start   string `json:"start" doc:"First closed day (YYYY-MM-DD)"`
	End     string `json:"end" doc:"Last closed day (YYYY-MM-DD)"`
	Reason  string `json:"reason" doc:"Free text"`
}

func toClosureResponse(c domain.Closure) ClosureResponse {
	return ClosureResponse{
		ID:      c.ID,
		HotelID: c.HotelID,
		Start:   c.Period.Start.String(),
		End:     c.Period.End.String(),
		Reason:  c.Reason,
	}
}

type CreateClosureInput struct {
	Body struct {
		HotelID string `json:"hotel_id" doc:"Hotel to close"`
		Start   string `json:"start" doc:"First closed day (YYYY-MM-DD)"`
		End     string `json:"end" doc:"Last closed day (YYYY-MM-DD)"`
		Reason  string `json:"reason,omitempty"`
	}
}

type ClosureOutput struct {
	Body ClosureResponse
}

type ClosureIDInput struct {
	ID string `path:"id" doc:"Closure ID"`
}

type HotelClosuresInput struct {
	ID string `path:"id" doc:"Hotel ID"`
}

type ListClosuresOutput struct {
	Body []ClosureResponse
}

type ReopenInput struct {
	ID   string `path:"id" doc:"Hotel ID"`
	From string `query:"from" required:"false" doc:"First day to reopen (YYYY-MM-DD)"`
	To   string `query:"to" required:"false" doc:"Last day to reopen (YYYY-MM-DD)"`
}

func registerClosures(api huma.API, svc *app.ClosureService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-closure",
		Method:      http.MethodPost,
		Path:        prefix + "/closures",
		Summary:     "Close a hotel for a period",
		Tags:        []string{"Closures"},
	}, func(ctx context.Context, input *CreateClosureInput) (*ClosureOutput, error) {
		start, err := parseDate("start", input.Body.Start)
		if err != nil {
			return nil, toHumaError(err)
		}
		end, err := parseDate("end", input.Body.End)
		if err != nil {
			return nil, toHumaError(err)
		}

		closure, err := svc.Save(ctx, domain.Closure{
			HotelID: input.Body.HotelID,
			Period:  domain.NewDateRange(start, end),
			Reason:  input.Body.Reason,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ClosureOutput{Body: toClosureResponse(closure)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-closure",
		Method:      http.MethodDelete,
		Path:        prefix + "/closures/{id}",
		Summary:     "Delete a closure",
		Tags:        []string{"Closures"},
	}, func(ctx context.Context, input *ClosureIDInput) (*struct{}, error) {
		if err := svc.Delete(ctx, input.ID); err != nil {
			return nil, toHumaError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-hotel-closures",
		Method:      http.MethodGet,
		Path:        prefix + "/hotels/{id}/closures",
		Summary:     "List the closures of a hotel",
		Tags:        []string{"Closures"},
	}, func(ctx context.Context, input *HotelClosuresInput) (*ListClosuresOutput, error) {
		closures, err := svc.ListByHotel(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]ClosureResponse, len(closures))
		for i, c := range closures {
			resp[i] = toClosureResponse(c)
		}
		return &ListClosuresOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reopen-hotel",
		Method:      http.MethodDelete,
		Path:        prefix + "/hotels/{id}/closures",
		Summary:     "Reopen a hotel for a period",
		Description: "Closures inside the range are deleted, closures straddling one end are trimmed and a closure containing the whole range is split in two.",
		Tags:        []string{"Closures"},
	}, func(ctx context.Context, input *ReopenInput) (*struct{}, error) {
		reopen, err := parseRange(input.From, input.To)
		if err != nil {
			return nil, toHumaError(err)
		}
		if err := svc.Reopen(ctx, input.ID, reopen); err != nil {
			return nil, toHumaError(err)
		}
		return nil, nil
	})
}
