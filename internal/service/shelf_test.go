package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/cellarapp/cellar-server/internal/errors"
)

func TestCreateShelf(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.store, "owner@example.com")

	shelf, err := env.shelves.CreateShelf(ctx, user.ID, CreateShelfRequest{
		Name:     "Basement rack",
		Location: "Basement",
		Capacity: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, shelf.Capacity)
	assert.Equal(t, 10, shelf.Available)
	assert.False(t, shelf.IsArchive)

	got, err := env.shelves.GetShelf(ctx, user.ID, shelf.ID)
	require.NoError(t, err)
	assert.Equal(t, "Basement rack", got.Name)
}

func TestCreateShelfNegativeCapacity(t *testing.T) {
	env := newTestEnv(t)
	user := createTestUser(t, env.store, "owner@example.com")

	_, err := env.shelves.CreateShelf(context.Background(), user.ID, CreateShelfRequest{
		Name:     "Bad",
		Capacity: -1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCapacity)
}

func TestUpdateShelfRecomputesAvailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.store, "owner@example.com")

	shelf, err := env.shelves.CreateShelf(ctx, user.ID, CreateShelfRequest{Name: "Rack", Capacity: 10})
	require.NoError(t, err)

	_, err = env.bottles.AddBottle(ctx, user.ID, AddBottleRequest{
		ShelfID:  shelf.ID,
		Name:     "Margaux",
		Type:     "Red",
		Quantity: 6,
	})
	require.NoError(t, err)

	// Growing keeps the 6 occupied slots: 20 total, 14 free.
	updated, err := env.shelves.UpdateShelf(ctx, user.ID, shelf.ID, UpdateShelfRequest{
		Name:     "Rack",
		Capacity: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Capacity)
	assert.Equal(t, 14, updated.Available)
	requireShelfInvariant(t, env, user.ID, shelf.ID)

	// Shrinking to exactly the occupied count leaves zero free.
	updated, err = env.shelves.UpdateShelf(ctx, user.ID, shelf.ID, UpdateShelfRequest{
		Name:     "Rack",
		Capacity: 6,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Available)

	// Below the occupied count is rejected.
	_, err = env.shelves.UpdateShelf(ctx, user.ID, shelf.ID, UpdateShelfRequest{
		Name:     "Rack",
		Capacity: 5,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientCapacity)
	requireShelfInvariant(t, env, user.ID, shelf.ID)
}

func TestDeleteShelf(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := createTestUser(t, env.store, "owner@example.com")

	shelf, err := env.shelves.CreateShelf(ctx, user.ID, CreateShelfRequest{Name: "Rack", Capacity: 5})
	require.NoError(t, err)

	bottle, err := env.bottles.AddBottle(ctx, user.ID, AddBottleRequest{
		ShelfID:  shelf.ID,
		Name:     "Margaux",
		Type:     "Red",
		Quantity: 2,
	})
	require.NoError(t, err)

	err = env.shelves.DeleteShelf(ctx, user.ID, shelf.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrShelfNotEmpty)

	require.NoError(t, env.bottles.SoftDeleteBottle(ctx, user.ID, bottle.ID))
	require.NoError(t, env.shelves.DeleteShelf(ctx, user.ID, shelf.ID))

	_, err = env.shelves.GetShelf(ctx, user.ID, shelf.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestShelvesAreOwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := createTestUser(t, env.store, "owner@example.com")
	other := createTestUser(t, env.store, "other@example.com")

	shelf, err := env.shelves.CreateShelf(ctx, owner.ID, CreateShelfRequest{Name: "Rack", Capacity: 5})
	require.NoError(t, err)

	_, err = env.shelves.GetShelf(ctx, other.ID, shelf.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	err = env.shelves.DeleteShelf(ctx, other.ID, shelf.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	shelves, err := env.shelves.ListShelves(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, shelves)
}
