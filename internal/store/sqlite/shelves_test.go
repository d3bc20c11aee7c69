package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/cellarapp/cellar-server/internal/domain"
	"github.com/cellarapp/cellar-server/internal/store"
)

func newTestShelf(t *testing.T, s *Store, id, ownerID string, capacity int) *domain.Shelf {
	t.Helper()
	now := time.Now()
	sh := &domain.Shelf{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		OwnerID:   ownerID,
		Name:      "Rack " + id,
		Location:  "Basement",
		Capacity:  capacity,
		Available: capacity,
	}
	if err := s.CreateShelf(context.Background(), sh); err != nil {
		t.Fatalf("create shelf: %v", err)
	}
	return sh
}

func TestCreateGetShelf(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	newTestUser(t, s, "user-1")

	sh := newTestShelf(t, s, "shelf-1", "user-1", 12)

	got, err := s.GetShelf(ctx, "shelf-1", "user-1")
	if err != nil {
		t.Fatalf("get shelf: %v", err)
	}
	if got.Name != sh.Name || got.Location != "Basement" {
		t.Errorf("got %q at %q, want %q at Basement", got.Name, got.Location, sh.Name)
	}
	if got.Capacity != 12 || got.Available != 12 {
		t.Errorf("capacity/available = %d/%d, want 12/12", got.Capacity, got.Available)
	}

	// Duplicate ID.
	if err := s.CreateShelf(ctx, sh); err != store.ErrAlreadyExists {
		t.Errorf("duplicate create: got %v, want ErrAlreadyExists", err)
	}

	// Wrong owner looks like not found.
	newTestUser(t, s, "user-2")
	if _, err := s.GetShelf(ctx, "shelf-1", "user-2"); err != store.ErrNotFound {
		t.Errorf("cross-owner get: got %v, want ErrNotFound", err)
	}
}

func TestReserveReleaseSlots(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	newTestUser(t, s, "user-1")
	newTestShelf(t, s, "shelf-1", "user-1", 10)

	err := s.WithTx(ctx, func(tx *Tx) error {
		return tx.ReserveSlots(ctx, "shelf-1", "user-1", 6)
	})
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	sh, _ := s.GetShelf(ctx, "shelf-1", "user-1")
	if sh.Available != 4 {
		t.Fatalf("available = %d, want 4", sh.Available)
	}

	// Over-reservation fails and leaves the count unchanged.
	err = s.WithTx(ctx, func(tx *Tx) error {
		return tx.ReserveSlots(ctx, "shelf-1", "user-1", 5)
	})
	if err != store.ErrInsufficientCapacity {
		t.Fatalf("over-reserve: got %v, want ErrInsufficientCapacity", err)
	}
	sh, _ = s.GetShelf(ctx, "shelf-1", "user-1")
	if sh.Available != 4 {
		t.Errorf("available = %d after failed reserve, want 4", sh.Available)
	}

	// Unknown shelf.
	err = s.WithTx(ctx, func(tx *Tx) error {
		return tx.ReserveSlots(ctx, "shelf-x", "user-1", 1)
	})
	if err != store.ErrNotFound {
		t.Errorf("unknown shelf: got %v, want ErrNotFound", err)
	}

	// Release restores slots.
	err = s.WithTx(ctx, func(tx *Tx) error {
		return tx.ReleaseSlots(ctx, "shelf-1", "user-1", 6)
	})
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	sh, _ = s.GetShelf(ctx, "shelf-1", "user-1")
	if sh.Available != 10 {
		t.Errorf("available = %d after release, want 10", sh.Available)
	}

	// Releasing beyond capacity is a bookkeeping error, not a clamp.
	err = s.WithTx(ctx, func(tx *Tx) error {
		return tx.ReleaseSlots(ctx, "shelf-1", "user-1", 1)
	})
	if err != store.ErrCapacityExceeded {
		t.Errorf("over-release: got %v, want ErrCapacityExceeded", err)
	}
}

func TestArchiveShelfIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	newTestUser(t, s, "user-1")

	var first, second *domain.Shelf
	err := s.WithTx(ctx, func(tx *Tx) error {
		var err error
		first, err = tx.ArchiveShelf(ctx, "user-1", "shelf-arch-1", time.Now())
		return err
	})
	if err != nil {
		t.Fatalf("first archive shelf: %v", err)
	}
	if !first.IsArchive || first.Name != domain.ArchiveShelfName {
		t.Errorf("archive shelf = %+v", first)
	}
	if first.Capacity != domain.ArchiveShelfCapacity {
		t.Errorf("capacity = %d, want %d", first.Capacity, domain.ArchiveShelfCapacity)
	}

	// Second call returns the same shelf, ignoring the candidate ID.
	err = s.WithTx(ctx, func(tx *Tx) error {
		var err error
		second, err = tx.ArchiveShelf(ctx, "user-1", "shelf-arch-2", time.Now())
		return err
	})
	if err != nil {
		t.Fatalf("second archive shelf: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second call returned %s, want %s", second.ID, first.ID)
	}

	// A different owner gets their own archive shelf.
	newTestUser(t, s, "user-2")
	err = s.WithTx(ctx, func(tx *Tx) error {
		other, err := tx.ArchiveShelf(ctx, "user-2", "shelf-arch-3", time.Now())
		if err != nil {
			return err
		}
		if other.ID == first.ID {
			t.Errorf("owners share an archive shelf")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("other owner archive shelf: %v", err)
	}
}

func TestDeleteShelf(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	newTestUser(t, s, "user-1")
	newTestShelf(t, s, "shelf-1", "user-1", 5)

	// Shelf with an in-stock bottle cannot be deleted.
	now := time.Now()
	err := s.WithTx(ctx, func(tx *Tx) error {
		return tx.InsertBottle(ctx, &domain.Bottle{
			ID:        "btl-1",
			CreatedAt: now,
			UpdatedAt: now,
			OwnerID:   "user-1",
			ShelfID:   "shelf-1",
			Name:      "Margaux",
			Type:      "Red",
			Quantity:  2,
			Status:    domain.BottleInStock,
		})
	})
	if err != nil {
		t.Fatalf("insert bottle: %v", err)
	}

	if err := s.DeleteShelf(ctx, "shelf-1", "user-1"); err != store.ErrShelfNotEmpty {
		t.Fatalf("delete occupied shelf: got %v, want ErrShelfNotEmpty", err)
	}

	// Soft-deleted bottles do not block deletion.
	err = s.WithTx(ctx, func(tx *Tx) error {
		return tx.SoftDeleteBottle(ctx, "btl-1", time.Now())
	})
	if err != nil {
		t.Fatalf("soft delete bottle: %v", err)
	}
	if err := s.DeleteShelf(ctx, "shelf-1", "user-1"); err != nil {
		t.Fatalf("delete empty shelf: %v", err)
	}

	if _, err := s.GetShelf(ctx, "shelf-1", "user-1"); err != store.ErrNotFound {
		t.Errorf("deleted shelf still present: %v", err)
	}

	// The soft-deleted row survives the shelf, unhooked from it.
	var shelfID sql.NullString
	if err := s.db.QueryRow(`SELECT shelf_id FROM bottles WHERE id = ?`, "btl-1").Scan(&shelfID); err != nil {
		t.Fatalf("soft-deleted bottle row gone: %v", err)
	}
	if shelfID.Valid {
		t.Errorf("soft-deleted bottle still references shelf %q", shelfID.String)
	}

	// The archive shelf refuses deletion.
	var arch *domain.Shelf
	err = s.WithTx(ctx, func(tx *Tx) error {
		var err error
		arch, err = tx.ArchiveShelf(ctx, "user-1", "shelf-arch", time.Now())
		return err
	})
	if err != nil {
		t.Fatalf("archive shelf: %v", err)
	}
	if err := s.DeleteShelf(ctx, arch.ID, "user-1"); err == nil {
		t.Error("archive shelf deletion should fail")
	}
}

func TestListShelvesByOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	newTestUser(t, s, "user-1")
	newTestShelf(t, s, "shelf-1", "user-1", 5)
	newTestShelf(t, s, "shelf-2", "user-1", 8)

	// Archive shelf exists but is excluded from listings.
	err := s.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ArchiveShelf(ctx, "user-1", "shelf-arch", time.Now())
		return err
	})
	if err != nil {
		t.Fatalf("archive shelf: %v", err)
	}

	now := time.Now()
	err = s.WithTx(ctx, func(tx *Tx) error {
		return tx.InsertBottle(ctx, &domain.Bottle{
			ID:        "btl-1",
			CreatedAt: now,
			UpdatedAt: now,
			OwnerID:   "user-1",
			ShelfID:   "shelf-1",
			Name:      "Margaux",
			Type:      "Red",
			Quantity:  3,
			Status:    domain.BottleInStock,
		})
	})
	if err != nil {
		t.Fatalf("insert bottle: %v", err)
	}

	shelves, err := s.ListShelvesByOwner(ctx, "user-1")
	if err != nil {
		t.Fatalf("list shelves: %v", err)
	}
	if len(shelves) != 2 {
		t.Fatalf("got %d shelves, want 2", len(shelves))
	}
	if shelves[0].ID != "shelf-1" || shelves[1].ID != "shelf-2" {
		t.Errorf("order = %s, %s", shelves[0].ID, shelves[1].ID)
	}
	if len(shelves[0].Bottles) != 1 || shelves[0].Bottles[0].ID != "btl-1" {
		t.Errorf("shelf-1 bottles = %+v", shelves[0].Bottles)
	}
	if len(shelves[1].Bottles) != 0 {
		t.Errorf("shelf-2 should be empty")
	}
}

func TestUpdateShelf(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	newTestUser(t, s, "user-1")
	sh := newTestShelf(t, s, "shelf-1", "user-1", 10)

	sh.Name = "Cave"
	sh.Location = "Garage"
	sh.Capacity = 20
	sh.Available = 20
	sh.UpdatedAt = time.Now()

	err := s.WithTx(ctx, func(tx *Tx) error {
		return tx.UpdateShelf(ctx, sh)
	})
	if err != nil {
		t.Fatalf("update shelf: %v", err)
	}

	got, err := s.GetShelf(ctx, "shelf-1", "user-1")
	if err != nil {
		t.Fatalf("get shelf: %v", err)
	}
	if got.Name != "Cave" || got.Location != "Garage" || got.Capacity != 20 || got.Available != 20 {
		t.Errorf("got %+v", got)
	}

	// Unknown shelf.
	sh.ID = "shelf-x"
	err = s.WithTx(ctx, func(tx *Tx) error {
		return tx.UpdateShelf(ctx, sh)
	})
	if err != store.ErrNotFound {
		t.Errorf("update unknown shelf: got %v, want ErrNotFound", err)
	}
}
