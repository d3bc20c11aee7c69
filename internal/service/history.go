package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cellarapp/cellar-server/internal/domain"
	"github.com/cellarapp/cellar-server/internal/store/sqlite"
)

// HistoryService serves the consumption history with tasting notes.
type HistoryService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewHistoryService creates a new history service.
func NewHistoryService(store *sqlite.Store, logger *slog.Logger) *HistoryService {
	return &HistoryService{store: store, logger: logger}
}

// History returns one entry per archived bottle owned by the user,
// most recent first, each with its tasting note and the average rating
// over notes sharing the wine's identity.
func (s *HistoryService) History(ctx context.Context, ownerID string) ([]*domain.TastingHistoryEntry, error) {
	entries, err := s.store.ListTastingHistory(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasting history: %w", err)
	}
	return entries, nil
}
