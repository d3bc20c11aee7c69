package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cellarapp/cellar-server/internal/domain"
	"github.com/cellarapp/cellar-server/internal/service"
)

// BottleBody is the writable part of a bottle stack.
type BottleBody struct {
	ShelfID  string  `json:"shelf_id" doc:"Shelf holding the stack"`
	Name     string  `json:"name" maxLength:"200" doc:"Wine name"`
	Vintage  *int    `json:"vintage,omitempty" minimum:"1800" maximum:"2200" doc:"Vintage year, omitted for non-vintage wines"`
	Type     string  `json:"type" maxLength:"100" doc:"Wine type, e.g. Red, White, Champagne"`
	Domain   *string `json:"domain,omitempty" maxLength:"200" doc:"Producer, omitted when unknown"`
	Quantity int     `json:"quantity" minimum:"1" doc:"Number of identical bottles"`
}

// AddBottleInput is the request to add a bottle stack.
type AddBottleInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	Body          BottleBody
}

// BottleOutput wraps a single bottle.
type BottleOutput struct {
	Body struct {
		Bottle *domain.Bottle `json:"bottle"`
	}
}

// ListBottlesInput is the request to list bottles.
type ListBottlesInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
}

// ListBottlesOutput wraps the bottle listing.
type ListBottlesOutput struct {
	Body struct {
		Bottles []*domain.Bottle `json:"bottles" doc:"In-stock bottles across all shelves, oldest first"`
	}
}

// GetBottleInput identifies a bottle.
type GetBottleInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Bottle ID"`
}

// EditBottleInput is the request to edit a bottle stack.
type EditBottleInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Bottle ID"`
	Body          BottleBody
}

// DeleteBottleInput identifies a bottle to delete.
type DeleteBottleInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Bottle ID"`
}

// ConsumeInput is the request to consume bottles from a stack.
type ConsumeInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Bottle ID"`
	Body          struct {
		Amount  int      `json:"amount" minimum:"1" doc:"Number of bottles to consume"`
		Rating  *float64 `json:"rating,omitempty" minimum:"0" maximum:"5" doc:"Optional rating for the tasting note"`
		Comment string   `json:"comment,omitempty" maxLength:"2000" doc:"Optional comment for the tasting note"`
	}
}

// ConsumeOutput reports the outcome of a consumption.
type ConsumeOutput struct {
	Body struct {
		Archived  *domain.Bottle `json:"archived" doc:"The consumed row on the archive shelf"`
		Remaining *domain.Bottle `json:"remaining,omitempty" doc:"The original row when the stack was only partially consumed"`
	}
}

func (s *Server) registerBottleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "add-bottle",
		Method:      http.MethodPost,
		Path:        "/api/v1/bottles",
		Summary:     "Add a bottle stack",
		Description: "Places a stack of identical bottles on a shelf, reserving one slot per bottle.",
		Tags:        []string{"Bottles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, func(ctx context.Context, input *AddBottleInput) (*BottleOutput, error) {
		userID, err := s.authenticateRequest(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		bottle, err := s.services.Bottle.AddBottle(ctx, userID, service.AddBottleRequest{
			ShelfID:  input.Body.ShelfID,
			Name:     input.Body.Name,
			Vintage:  input.Body.Vintage,
			Type:     input.Body.Type,
			Domain:   input.Body.Domain,
			Quantity: input.Body.Quantity,
		})
		if err != nil {
			return nil, huma.Error400BadRequest("add bottle failed", err)
		}

		resp := &BottleOutput{}
		resp.Body.Bottle = bottle
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "list-bottles",
		Method:      http.MethodGet,
		Path:        "/api/v1/bottles",
		Summary:     "List bottles",
		Description: "Lists the user's in-stock bottles across all shelves.",
		Tags:        []string{"Bottles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, func(ctx context.Context, input *ListBottlesInput) (*ListBottlesOutput, error) {
		userID, err := s.authenticateRequest(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		bottles, err := s.services.Bottle.ListBottles(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("list bottles failed", err)
		}

		resp := &ListBottlesOutput{}
		resp.Body.Bottles = bottles
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-bottle",
		Method:      http.MethodGet,
		Path:        "/api/v1/bottles/{id}",
		Summary:     "Get a bottle",
		Tags:        []string{"Bottles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, func(ctx context.Context, input *GetBottleInput) (*BottleOutput, error) {
		userID, err := s.authenticateRequest(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		bottle, err := s.services.Bottle.GetBottle(ctx, userID, input.ID)
		if err != nil {
			return nil, huma.Error404NotFound("bottle not found", err)
		}

		resp := &BottleOutput{}
		resp.Body.Bottle = bottle
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "edit-bottle",
		Method:      http.MethodPatch,
		Path:        "/api/v1/bottles/{id}",
		Summary:     "Edit a bottle stack",
		Description: "Updates an in-stock stack. Quantity and shelf changes rebalance slot bookkeeping.",
		Tags:        []string{"Bottles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, func(ctx context.Context, input *EditBottleInput) (*BottleOutput, error) {
		userID, err := s.authenticateRequest(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		bottle, err := s.services.Bottle.EditBottle(ctx, userID, input.ID, service.EditBottleRequest{
			ShelfID:  input.Body.ShelfID,
			Name:     input.Body.Name,
			Vintage:  input.Body.Vintage,
			Type:     input.Body.Type,
			Domain:   input.Body.Domain,
			Quantity: input.Body.Quantity,
		})
		if err != nil {
			return nil, huma.Error400BadRequest("edit bottle failed", err)
		}

		resp := &BottleOutput{}
		resp.Body.Bottle = bottle
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-bottle",
		Method:        http.MethodDelete,
		Path:          "/api/v1/bottles/{id}",
		Summary:       "Delete a bottle stack",
		Description:   "Hides a stack and frees its shelf slots. Consumption history is kept.",
		Tags:          []string{"Bottles"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *DeleteBottleInput) (*struct{}, error) {
		userID, err := s.authenticateRequest(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		if err := s.services.Bottle.SoftDeleteBottle(ctx, userID, input.ID); err != nil {
			return nil, huma.Error400BadRequest("delete bottle failed", err)
		}

		// Best effort, the row keeps its label reference for history.
		if err := s.labels.Delete(input.ID); err != nil {
			s.logger.Warn("failed to delete label file", "bottle_id", input.ID, "error", err)
		}

		return nil, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "consume-bottle",
		Method:      http.MethodPost,
		Path:        "/api/v1/bottles/{id}/consume",
		Summary:     "Consume bottles from a stack",
		Description: "Moves the consumed bottles to the archive shelf, frees the source slots, and records an optional tasting note.",
		Tags:        []string{"Bottles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, func(ctx context.Context, input *ConsumeInput) (*ConsumeOutput, error) {
		userID, err := s.authenticateRequest(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		result, err := s.services.Bottle.Consume(ctx, userID, input.ID, service.ConsumeRequest{
			Amount:  input.Body.Amount,
			Rating:  input.Body.Rating,
			Comment: input.Body.Comment,
		})
		if err != nil {
			return nil, huma.Error400BadRequest("consume failed", err)
		}

		resp := &ConsumeOutput{}
		resp.Body.Archived = result.Archived
		resp.Body.Remaining = result.Remaining
		return resp, nil
	})
}
