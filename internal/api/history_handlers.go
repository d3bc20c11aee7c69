package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cellarapp/cellar-server/internal/domain"
)

// ListHistoryInput is the request for the tasting history.
type ListHistoryInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
}

// ListHistoryOutput wraps the tasting history.
type ListHistoryOutput struct {
	Body struct {
		Entries []*domain.TastingHistoryEntry `json:"entries" doc:"One entry per consumed row, newest first"`
	}
}

func (s *Server) registerHistoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-history",
		Method:      http.MethodGet,
		Path:        "/api/v1/history",
		Summary:     "List tasting history",
		Description: "Lists every consumed bottle row with its tasting note and the average rating across notes for the same wine.",
		Tags:        []string{"History"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, func(ctx context.Context, input *ListHistoryInput) (*ListHistoryOutput, error) {
		userID, err := s.authenticateRequest(ctx, input.Authorization)
		if err != nil {
			return nil, err
		}

		entries, err := s.services.History.History(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("list history failed", err)
		}

		resp := &ListHistoryOutput{}
		resp.Body.Entries = entries
		return resp, nil
	})
}
