package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cellarapp/cellar-server/internal/domain"
	domainerrors "github.com/cellarapp/cellar-server/internal/errors"
	"github.com/cellarapp/cellar-server/internal/id"
	"github.com/cellarapp/cellar-server/internal/store"
	"github.com/cellarapp/cellar-server/internal/store/sqlite"
	"github.com/cellarapp/cellar-server/internal/validation"
)

// validate is a shared validator instance for request validation.
var validate = validation.New()

// ShelfService orchestrates shelf operations with ownership enforcement
// and capacity bookkeeping.
type ShelfService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewShelfService creates a new shelf service.
func NewShelfService(store *sqlite.Store, logger *slog.Logger) *ShelfService {
	return &ShelfService{store: store, logger: logger}
}

// CreateShelfRequest contains the data for a new shelf.
type CreateShelfRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Location string `json:"location" validate:"max=200"`
	Capacity int    `json:"capacity"`
}

// CreateShelf creates a new shelf for the user, with all slots free.
func (s *ShelfService) CreateShelf(ctx context.Context, ownerID string, req CreateShelfRequest) (*domain.Shelf, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if req.Capacity < 0 {
		return nil, domainerrors.InvalidCapacity("shelf capacity cannot be negative")
	}

	shelfID, err := id.Generate("shelf")
	if err != nil {
		return nil, fmt.Errorf("generate shelf ID: %w", err)
	}

	now := time.Now()
	shelf := &domain.Shelf{
		ID:        shelfID,
		CreatedAt: now,
		UpdatedAt: now,
		OwnerID:   ownerID,
		Name:      req.Name,
		Location:  req.Location,
		Capacity:  req.Capacity,
		Available: req.Capacity,
	}

	if err := s.store.CreateShelf(ctx, shelf); err != nil {
		return nil, fmt.Errorf("create shelf: %w", err)
	}

	s.logger.Info("shelf created",
		"shelf_id", shelfID,
		"owner_id", ownerID,
		"capacity", req.Capacity,
	)

	return shelf, nil
}

// GetShelf retrieves a shelf owned by the user.
func (s *ShelfService) GetShelf(ctx context.Context, ownerID, shelfID string) (*domain.Shelf, error) {
	shelf, err := s.store.GetShelf(ctx, shelfID, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("shelf not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get shelf: %w", err)
	}
	return shelf, nil
}

// ListShelves returns the user's shelves with their in-stock bottles.
// The archive shelf is excluded.
func (s *ShelfService) ListShelves(ctx context.Context, ownerID string) ([]*domain.Shelf, error) {
	shelves, err := s.store.ListShelvesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list shelves: %w", err)
	}
	return shelves, nil
}

// UpdateShelfRequest contains the editable shelf fields.
type UpdateShelfRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Location string `json:"location" validate:"max=200"`
	Capacity int    `json:"capacity"`
}

// UpdateShelf updates a shelf's metadata and capacity. Shrinking below
// the number of occupied slots fails; the free slot count is recomputed
// so occupied slots are preserved exactly.
func (s *ShelfService) UpdateShelf(ctx context.Context, ownerID, shelfID string, req UpdateShelfRequest) (*domain.Shelf, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if req.Capacity < 0 {
		return nil, domainerrors.InvalidCapacity("shelf capacity cannot be negative")
	}

	var shelf *domain.Shelf
	err := s.store.WithTx(ctx, func(tx *sqlite.Tx) error {
		var err error
		shelf, err = tx.GetShelf(ctx, shelfID, ownerID)
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("shelf not found")
		}
		if err != nil {
			return err
		}
		if shelf.IsArchive {
			return domainerrors.Validation("archive shelf cannot be edited")
		}

		occupied := shelf.Occupied()
		if req.Capacity < occupied {
			return domainerrors.InsufficientCapacityf(
				"cannot shrink capacity to %d: %d slots are occupied", req.Capacity, occupied)
		}

		shelf.Name = req.Name
		shelf.Location = req.Location
		shelf.Capacity = req.Capacity
		shelf.Available = req.Capacity - occupied
		shelf.UpdatedAt = time.Now()

		return tx.UpdateShelf(ctx, shelf)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("shelf updated", "shelf_id", shelfID, "owner_id", ownerID)
	return shelf, nil
}

// DeleteShelf removes an empty shelf.
func (s *ShelfService) DeleteShelf(ctx context.Context, ownerID, shelfID string) error {
	err := s.store.DeleteShelf(ctx, shelfID, ownerID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound("shelf not found")
	case errors.Is(err, store.ErrShelfNotEmpty):
		return domainerrors.ShelfNotEmpty("shelf still holds bottles")
	case err != nil:
		var storeErr *store.Error
		if errors.As(err, &storeErr) {
			return domainerrors.Validation(storeErr.Message)
		}
		return fmt.Errorf("delete shelf: %w", err)
	}

	s.logger.Info("shelf deleted", "shelf_id", shelfID, "owner_id", ownerID)
	return nil
}
