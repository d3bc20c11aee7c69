package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cellarapp/cellar-server/internal/domain"
	domainerrors "github.com/cellarapp/cellar-server/internal/errors"
	"github.com/cellarapp/cellar-server/internal/id"
	"github.com/cellarapp/cellar-server/internal/store"
	"github.com/cellarapp/cellar-server/internal/store/sqlite"
)

// ConsumeRequest describes a consumption event for a bottle stack.
type ConsumeRequest struct {
	Amount  int      `json:"amount"`
	Rating  *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Comment string   `json:"comment,omitempty" validate:"max=2000"`
}

// ConsumeResult reports the outcome of a consumption.
type ConsumeResult struct {
	// Archived is the consumed row on the archive shelf. For a full
	// consumption this is the original row; for a partial one it is a
	// newly created split row.
	Archived *domain.Bottle `json:"archived"`
	// Remaining is the original row with its reduced quantity, nil when
	// the whole stack was consumed.
	Remaining *domain.Bottle `json:"remaining,omitempty"`
}

// Consume drinks amount bottles from a stack. The consumed bottles
// move to the owner's archive shelf (created on first use), the source
// shelf's slots are freed, and an optional tasting note is recorded
// against the wine's identity. All of it commits as one transaction.
func (s *BottleService) Consume(ctx context.Context, ownerID, bottleID string, req ConsumeRequest) (*ConsumeResult, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, domainerrors.InvalidQuantityf("cannot consume %d bottles", req.Amount)
	}

	var result ConsumeResult
	err := s.store.WithTx(ctx, func(tx *sqlite.Tx) error {
		bottle, err := tx.GetBottle(ctx, bottleID, ownerID)
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("bottle not found")
		}
		if err != nil {
			return err
		}
		if !bottle.InStock() {
			return domainerrors.NotFound("bottle is already consumed")
		}

		// Re-check against the row inside the transaction, the caller's
		// view may be stale.
		if req.Amount > bottle.Quantity {
			return domainerrors.InvalidQuantityf(
				"cannot consume %d bottles, only %d in stock", req.Amount, bottle.Quantity)
		}

		now := time.Now()

		archiveID, err := id.Generate("shelf")
		if err != nil {
			return fmt.Errorf("generate shelf ID: %w", err)
		}
		archive, err := tx.ArchiveShelf(ctx, ownerID, archiveID, now)
		if err != nil {
			return fmt.Errorf("resolve archive shelf: %w", err)
		}

		// The archive shelf is a sentinel sink, archived stock does not
		// reserve slots on it.
		sourceShelfID := bottle.ShelfID

		if req.Amount == bottle.Quantity {
			// Full consumption: the row itself moves to the archive.
			if err := tx.ArchiveBottle(ctx, bottle.ID, archive.ID, req.Rating, req.Comment, now); err != nil {
				return err
			}
			archived := *bottle
			archived.ShelfID = archive.ID
			archived.Status = domain.BottleArchived
			archived.Rating = req.Rating
			archived.Comment = req.Comment
			archived.UpdatedAt = now
			result.Archived = &archived
		} else {
			// Partial consumption: split off a new archived row and
			// shrink the original.
			if err := tx.SetBottleQuantity(ctx, bottle.ID, bottle.Quantity-req.Amount, now); err != nil {
				return err
			}

			splitID, err := id.Generate("btl")
			if err != nil {
				return fmt.Errorf("generate bottle ID: %w", err)
			}
			split := &domain.Bottle{
				ID:        splitID,
				CreatedAt: now,
				UpdatedAt: now,
				OwnerID:   ownerID,
				ShelfID:   archive.ID,
				Name:      bottle.Name,
				Vintage:   bottle.Vintage,
				Type:      bottle.Type,
				Domain:    bottle.Domain,
				Quantity:  req.Amount,
				Rating:    req.Rating,
				Comment:   req.Comment,
				Status:    domain.BottleArchived,
				Label:     bottle.Label,
			}
			if err := tx.InsertBottle(ctx, split); err != nil {
				return err
			}

			remaining := *bottle
			remaining.Quantity = bottle.Quantity - req.Amount
			remaining.UpdatedAt = now
			result.Archived = split
			result.Remaining = &remaining
		}

		if err := tx.ReleaseSlots(ctx, sourceShelfID, ownerID, req.Amount); err != nil {
			return mapShelfError(err)
		}

		// A consumption with feedback also updates the identity-keyed
		// tasting note, last write wins. A comment of only whitespace
		// does not count as feedback.
		if req.Rating != nil || strings.TrimSpace(req.Comment) != "" {
			noteID, err := id.Generate("note")
			if err != nil {
				return fmt.Errorf("generate note ID: %w", err)
			}
			note := &domain.TastingNote{
				ID:         noteID,
				CreatedAt:  now,
				UpdatedAt:  now,
				OwnerID:    ownerID,
				BottleName: bottle.Name,
				Vintage:    bottle.Vintage,
				Type:       bottle.Type,
				Domain:     bottle.Domain,
				Rating:     req.Rating,
				Comment:    req.Comment,
			}
			if err := tx.UpsertTastingNote(ctx, note); err != nil {
				return fmt.Errorf("upsert tasting note: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("bottle consumed",
		"bottle_id", bottleID,
		"owner_id", ownerID,
		"amount", req.Amount,
		"archived_id", result.Archived.ID,
	)

	return &result, nil
}
