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
)

// BottleService orchestrates bottle operations. Every multi-step
// mutation (capacity reservation plus row change) runs in a single
// store transaction.
type BottleService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewBottleService creates a new bottle service.
func NewBottleService(store *sqlite.Store, logger *slog.Logger) *BottleService {
	return &BottleService{store: store, logger: logger}
}

// AddBottleRequest contains the data for a new bottle stack.
type AddBottleRequest struct {
	ShelfID  string  `json:"shelf_id" validate:"required"`
	Name     string  `json:"name" validate:"required,max=200"`
	Vintage  *int    `json:"vintage,omitempty" validate:"omitempty,gte=1800,lte=2200"`
	Type     string  `json:"type" validate:"required,max=100"`
	Domain   *string `json:"domain,omitempty" validate:"omitempty,max=200"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	Label    string  `json:"label,omitempty"`
}

// AddBottle places a stack of identical bottles on a shelf, reserving
// one slot per bottle. Reservation and insert commit together.
func (s *BottleService) AddBottle(ctx context.Context, ownerID string, req AddBottleRequest) (*domain.Bottle, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	bottleID, err := id.Generate("btl")
	if err != nil {
		return nil, fmt.Errorf("generate bottle ID: %w", err)
	}

	now := time.Now()
	bottle := &domain.Bottle{
		ID:        bottleID,
		CreatedAt: now,
		UpdatedAt: now,
		OwnerID:   ownerID,
		ShelfID:   req.ShelfID,
		Name:      req.Name,
		Vintage:   req.Vintage,
		Type:      req.Type,
		Domain:    req.Domain,
		Quantity:  req.Quantity,
		Status:    domain.BottleInStock,
		Label:     req.Label,
	}

	err = s.store.WithTx(ctx, func(tx *sqlite.Tx) error {
		if err := tx.ReserveSlots(ctx, req.ShelfID, ownerID, req.Quantity); err != nil {
			return mapShelfError(err)
		}
		return tx.InsertBottle(ctx, bottle)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bottle added",
		"bottle_id", bottleID,
		"shelf_id", req.ShelfID,
		"owner_id", ownerID,
		"quantity", req.Quantity,
	)

	return bottle, nil
}

// GetBottle retrieves a bottle owned by the user.
func (s *BottleService) GetBottle(ctx context.Context, ownerID, bottleID string) (*domain.Bottle, error) {
	bottle, err := s.store.GetBottle(ctx, bottleID, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFound("bottle not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get bottle: %w", err)
	}
	return bottle, nil
}

// ListBottles returns the user's in-stock bottles across all shelves.
func (s *BottleService) ListBottles(ctx context.Context, ownerID string) ([]*domain.Bottle, error) {
	bottles, err := s.store.ListBottlesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list bottles: %w", err)
	}
	return bottles, nil
}

// EditBottleRequest contains the editable bottle fields.
type EditBottleRequest struct {
	ShelfID  string  `json:"shelf_id" validate:"required"`
	Name     string  `json:"name" validate:"required,max=200"`
	Vintage  *int    `json:"vintage,omitempty" validate:"omitempty,gte=1800,lte=2200"`
	Type     string  `json:"type" validate:"required,max=100"`
	Domain   *string `json:"domain,omitempty" validate:"omitempty,max=200"`
	Quantity int     `json:"quantity" validate:"required,gt=0"`
	Label    string  `json:"label,omitempty"`
}

// EditBottle updates an in-stock bottle. Changing the quantity or the
// shelf rebalances shelf capacity in the same transaction: the old
// shelf's slots are released and the new quantity is reserved on the
// target shelf.
func (s *BottleService) EditBottle(ctx context.Context, ownerID, bottleID string, req EditBottleRequest) (*domain.Bottle, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	var bottle *domain.Bottle
	err := s.store.WithTx(ctx, func(tx *sqlite.Tx) error {
		var err error
		bottle, err = tx.GetBottle(ctx, bottleID, ownerID)
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("bottle not found")
		}
		if err != nil {
			return err
		}
		if !bottle.InStock() {
			return domainerrors.Validation("consumed bottles cannot be edited")
		}

		// Release the old reservation, then reserve at the new shelf
		// and quantity. Works for same-shelf quantity changes too.
		if err := tx.ReleaseSlots(ctx, bottle.ShelfID, ownerID, bottle.Quantity); err != nil {
			return mapShelfError(err)
		}
		if err := tx.ReserveSlots(ctx, req.ShelfID, ownerID, req.Quantity); err != nil {
			return mapShelfError(err)
		}

		bottle.ShelfID = req.ShelfID
		bottle.Name = req.Name
		bottle.Vintage = req.Vintage
		bottle.Type = req.Type
		bottle.Domain = req.Domain
		bottle.Quantity = req.Quantity
		bottle.Label = req.Label
		bottle.UpdatedAt = time.Now()

		return tx.UpdateBottle(ctx, bottle)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bottle updated", "bottle_id", bottleID, "owner_id", ownerID)
	return bottle, nil
}

// SoftDeleteBottle hides a bottle and releases its shelf slots. The row
// is kept so consumption history stays intact.
func (s *BottleService) SoftDeleteBottle(ctx context.Context, ownerID, bottleID string) error {
	err := s.store.WithTx(ctx, func(tx *sqlite.Tx) error {
		bottle, err := tx.GetBottle(ctx, bottleID, ownerID)
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("bottle not found")
		}
		if err != nil {
			return err
		}

		// Archived rows never hold a reservation, only in-stock
		// quantity frees slots.
		if bottle.InStock() {
			if err := tx.ReleaseSlots(ctx, bottle.ShelfID, ownerID, bottle.Quantity); err != nil {
				return mapShelfError(err)
			}
		}
		return tx.SoftDeleteBottle(ctx, bottleID, time.Now())
	})
	if err != nil {
		return err
	}

	s.logger.Info("bottle deleted", "bottle_id", bottleID, "owner_id", ownerID)
	return nil
}

// SetLabel records the stored label image filename on a bottle. An
// empty filename clears the label.
func (s *BottleService) SetLabel(ctx context.Context, ownerID, bottleID, filename string) (*domain.Bottle, error) {
	var bottle *domain.Bottle
	err := s.store.WithTx(ctx, func(tx *sqlite.Tx) error {
		var err error
		bottle, err = tx.GetBottle(ctx, bottleID, ownerID)
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("bottle not found")
		}
		if err != nil {
			return err
		}

		bottle.Label = filename
		bottle.UpdatedAt = time.Now()
		return tx.UpdateBottle(ctx, bottle)
	})
	if err != nil {
		return nil, err
	}

	return bottle, nil
}

// mapShelfError converts capacity-related store errors to domain errors.
func mapShelfError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound("shelf not found")
	case errors.Is(err, store.ErrInsufficientCapacity):
		return domainerrors.InsufficientCapacity("not enough free slots on shelf")
	default:
		return err
	}
}
