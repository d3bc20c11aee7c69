package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cellarapp/cellar-server/internal/domain"
	"github.com/cellarapp/cellar-server/internal/id"
	"github.com/cellarapp/cellar-server/internal/store/sqlite"
)

// testEnv bundles the services under test on one shared store.
type testEnv struct {
	store   *sqlite.Store
	shelves *ShelfService
	bottles *BottleService
	history *HistoryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := sqlite.Open(dbPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testEnv{
		store:   s,
		shelves: NewShelfService(s, logger),
		bottles: NewBottleService(s, logger),
		history: NewHistoryService(s, logger),
	}
}

func createTestUser(t *testing.T, s *sqlite.Store, email string) *domain.User {
	t.Helper()

	userID, err := id.Generate("user")
	require.NoError(t, err)

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		CreatedAt:    now,
		UpdatedAt:    now,
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: "x",
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

// requireShelfInvariant asserts that free slots plus in-stock bottle
// quantities equal the shelf's capacity.
func requireShelfInvariant(t *testing.T, env *testEnv, ownerID, shelfID string) {
	t.Helper()

	shelves, err := env.store.ListShelvesByOwner(context.Background(), ownerID)
	require.NoError(t, err)

	for _, sh := range shelves {
		if sh.ID != shelfID {
			continue
		}
		total := 0
		for _, b := range sh.Bottles {
			total += b.Quantity
		}
		require.Equal(t, sh.Capacity, sh.Available+total,
			"shelf %s: available %d + stock %d != capacity %d", sh.ID, sh.Available, total, sh.Capacity)
		return
	}
	t.Fatalf("shelf %s not in listing", shelfID)
}
