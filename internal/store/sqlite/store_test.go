package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cellarapp/cellar-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// newTestUser inserts a user to satisfy owner foreign keys.
func newTestUser(t *testing.T, s *Store, id string) *domain.User {
	t.Helper()
	now := time.Now()
	u := &domain.User{
		ID:           id,
		CreatedAt:    now,
		UpdatedAt:    now,
		Email:        id + "@example.com",
		DisplayName:  "Test User",
		PasswordHash: "x",
	}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func ptrInt(i int) *int           { return &i }
func ptrStr(s string) *string     { return &s }
func ptrFloat(f float64) *float64 { return &f }

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Verify WAL mode is set.
	var journalMode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Verify foreign keys are enabled.
	var fk int
	err = s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	// Verify tables exist.
	tables := []string{"users", "shelves", "bottles", "tasting_notes"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// Re-open should work (schema is idempotent).
	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("re-open store: %v", err)
	}
	defer s2.Close()
}

func TestWithTxRollback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	newTestUser(t, s, "user-tx")

	now := time.Now()
	shelf := &domain.Shelf{
		ID:        "shelf-tx",
		CreatedAt: now,
		UpdatedAt: now,
		OwnerID:   "user-tx",
		Name:      "Rack",
		Capacity:  10,
		Available: 10,
	}
	if err := s.CreateShelf(ctx, shelf); err != nil {
		t.Fatalf("create shelf: %v", err)
	}

	wantErr := os.ErrInvalid
	err := s.WithTx(ctx, func(tx *Tx) error {
		if err := tx.ReserveSlots(ctx, "shelf-tx", "user-tx", 3); err != nil {
			return err
		}
		return wantErr
	})
	if err != wantErr {
		t.Fatalf("expected forwarded error, got %v", err)
	}

	// The reservation must have been rolled back.
	got, err := s.GetShelf(ctx, "shelf-tx", "user-tx")
	if err != nil {
		t.Fatalf("get shelf: %v", err)
	}
	if got.Available != 10 {
		t.Errorf("available = %d after rollback, want 10", got.Available)
	}
}
