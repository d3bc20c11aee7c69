package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cellarapp/cellar-server/internal/domain"
	"github.com/cellarapp/cellar-server/internal/service"
)

// ShelfBody is the writable part of a shelf.
type ShelfBody struct {
	Name     string `json:"name" maxLength:"200" doc:"Shelf name"`
	Location string `json:"location,omitempty" maxLength:"200" doc:"Physical location, e.g. 'basement, left rack'"`
	Capacity int    `json:"capacity" minimum:"0" doc:"Total number of slots"`
}

// CreateShelfInput is the request to create a shelf.
type CreateShelfInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	Body          ShelfBody
}

// ShelfOutput wraps a single shelf.
type ShelfOutput struct {
	Body struct {
		Shelf *domain.Shelf `json:"shelf"`
	}
}

// ListShelvesInput is the request to list shelves.
type ListShelvesInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
}

// ListShelvesOutput wraps the shelf listing.
type ListShelvesOutput struct {
	Body struct {
		Shelves []*domain.Shelf `json:"shelves" doc:"Shelves with their in-stock bottles, oldest first"`
	}
}

// GetShelfInput identifies a shelf.
type GetShelfInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Shelf ID"`
}

// UpdateShelfInput is the request to update a shelf.
type UpdateShelfInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Shelf ID"`
	Body          ShelfBody
}

// DeleteShelfInput identifies a shelf to delete.
type DeleteShelfInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
	ID            string `path:"id" doc:"Shelf ID"`
}

func (s *Server) registerShelfRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "create-shelf",
		Method:      http.MethodPost,
		Path:        "/api/v1/shelves",
		Summary:     "Create a shelf",
		Description: "Creates a shelf with the given capacity. All slots start free.",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, func(ctx context.Context, input *CreateShelfInput) (*ShelfOutput, error) {
		userID, err := s.authenticateRequest(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		shelf, err := s.services.Shelf.CreateShelf(ctx, userID, service.CreateShelfRequest{
			Name:     input.Body.Name,
			Location: input.Body.Location,
			Capacity: input.Body.Capacity,
		})
		if err != nil {
			return nil, huma.Error400BadRequest("create shelf failed", err)
		}

		resp := &ShelfOutput{}
		resp.Body.Shelf = shelf
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "list-shelves",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelves",
		Summary:     "List shelves",
		Description: "Lists the user's shelves with their in-stock bottles. The archive is excluded.",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, func(ctx context.Context, input *ListShelvesInput) (*ListShelvesOutput, error) {
		userID, err := s.authenticateRequest(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		shelves, err := s.services.Shelf.ListShelves(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("list shelves failed", err)
		}

		resp := &ListShelvesOutput{}
		resp.Body.Shelves = shelves
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-shelf",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelves/{id}",
		Summary:     "Get a shelf",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, func(ctx context.Context, input *GetShelfInput) (*ShelfOutput, error) {
		userID, err := s.authenticateRequest(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		shelf, err := s.services.Shelf.GetShelf(ctx, userID, input.ID)
		if err != nil {
			return nil, huma.Error404NotFound("shelf not found", err)
		}

		resp := &ShelfOutput{}
		resp.Body.Shelf = shelf
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "update-shelf",
		Method:      http.MethodPatch,
		Path:        "/api/v1/shelves/{id}",
		Summary:     "Update a shelf",
		Description: "Updates shelf metadata and capacity. Shrinking below the occupied slot count fails.",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, func(ctx context.Context, input *UpdateShelfInput) (*ShelfOutput, error) {
		userID, err := s.authenticateRequest(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		shelf, err := s.services.Shelf.UpdateShelf(ctx, userID, input.ID, service.UpdateShelfRequest{
			Name:     input.Body.Name,
			Location: input.Body.Location,
			Capacity: input.Body.Capacity,
		})
		if err != nil {
			return nil, huma.Error400BadRequest("update shelf failed", err)
		}

		resp := &ShelfOutput{}
		resp.Body.Shelf = shelf
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID:   "delete-shelf",
		Method:        http.MethodDelete,
		Path:          "/api/v1/shelves/{id}",
		Summary:       "Delete a shelf",
		Description:   "Deletes an empty shelf. Shelves still holding bottles cannot be deleted.",
		Tags:          []string{"Shelves"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *DeleteShelfInput) (*struct{}, error) {
		userID, err := s.authenticateRequest(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		if err := s.services.Shelf.DeleteShelf(ctx, userID, input.ID); err != nil {
			return nil, huma.Error400BadRequest("delete shelf failed", err)
		}

		return nil, nil
	})
}
