package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/cellarapp/cellar-server/internal/domain"
	"github.com/cellarapp/cellar-server/internal/store"
)

func upsertNote(t *testing.T, s *Store, note *domain.TastingNote) {
	t.Helper()
	err := s.WithTx(context.Background(), func(tx *Tx) error {
		return tx.UpsertTastingNote(context.Background(), note)
	})
	if err != nil {
		t.Fatalf("upsert note: %v", err)
	}
}

func TestUpsertTastingNoteLastWriteWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	newTestUser(t, s, "user-1")

	now := time.Now()
	identity := domain.WineIdentity{
		Name:    "Margaux",
		Vintage: ptrInt(2015),
		Type:    "Red",
		Domain:  ptrStr("Chateau Margaux"),
		OwnerID: "user-1",
	}

	upsertNote(t, s, &domain.TastingNote{
		ID:         "note-1",
		CreatedAt:  now,
		UpdatedAt:  now,
		OwnerID:    "user-1",
		BottleName: "Margaux",
		Vintage:    ptrInt(2015),
		Type:       "Red",
		Domain:     ptrStr("Chateau Margaux"),
		Rating:     ptrFloat(4.0),
		Comment:    "good",
	})

	// Same identity again: overwrite in place, the second ID is dropped.
	upsertNote(t, s, &domain.TastingNote{
		ID:         "note-2",
		CreatedAt:  now,
		UpdatedAt:  now.Add(time.Minute),
		OwnerID:    "user-1",
		BottleName: "Margaux",
		Vintage:    ptrInt(2015),
		Type:       "Red",
		Domain:     ptrStr("Chateau Margaux"),
		Rating:     ptrFloat(4.5),
		Comment:    "better",
	})

	got, err := s.GetNoteByIdentity(ctx, identity)
	if err != nil {
		t.Fatalf("get note: %v", err)
	}
	if got.ID != "note-1" {
		t.Errorf("note id = %s, want note-1 (update in place)", got.ID)
	}
	if got.Rating == nil || *got.Rating != 4.5 || got.Comment != "better" {
		t.Errorf("rating/comment = %v/%q, want 4.5/better", got.Rating, got.Comment)
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tasting_notes`).Scan(&count); err != nil {
		t.Fatalf("count notes: %v", err)
	}
	if count != 1 {
		t.Errorf("note count = %d, want 1", count)
	}
}

func TestNoteIdentityNullSemantics(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	newTestUser(t, s, "user-1")

	now := time.Now()

	// Note with no domain.
	upsertNote(t, s, &domain.TastingNote{
		ID:         "note-1",
		CreatedAt:  now,
		UpdatedAt:  now,
		OwnerID:    "user-1",
		BottleName: "Margaux",
		Vintage:    ptrInt(2015),
		Type:       "Red",
		Rating:     ptrFloat(3.5),
	})

	// Unset domain matches unset domain.
	nullIdentity := domain.WineIdentity{
		Name:    "Margaux",
		Vintage: ptrInt(2015),
		Type:    "Red",
		OwnerID: "user-1",
	}
	if _, err := s.GetNoteByIdentity(ctx, nullIdentity); err != nil {
		t.Errorf("null-domain lookup: %v", err)
	}

	// A set domain never matches an unset one.
	setIdentity := nullIdentity
	setIdentity.Domain = ptrStr("X")
	if _, err := s.GetNoteByIdentity(ctx, setIdentity); err != store.ErrNotFound {
		t.Errorf("set-vs-null domain lookup: got %v, want ErrNotFound", err)
	}

	// Upserting with a set domain creates a second, distinct note.
	upsertNote(t, s, &domain.TastingNote{
		ID:         "note-2",
		CreatedAt:  now,
		UpdatedAt:  now,
		OwnerID:    "user-1",
		BottleName: "Margaux",
		Vintage:    ptrInt(2015),
		Type:       "Red",
		Domain:     ptrStr("X"),
		Rating:     ptrFloat(5.0),
	})

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tasting_notes`).Scan(&count); err != nil {
		t.Fatalf("count notes: %v", err)
	}
	if count != 2 {
		t.Errorf("note count = %d, want 2", count)
	}
}
