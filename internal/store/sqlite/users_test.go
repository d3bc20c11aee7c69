package sqlite

import (
	"context"
	"testing"

	"github.com/cellarapp/cellar-server/internal/store"
)

func TestCreateGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := newTestUser(t, s, "user-1")

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Email != u.Email || got.DisplayName != u.DisplayName {
		t.Errorf("got %+v, want %+v", got, u)
	}

	if _, err := s.GetUser(ctx, "user-x"); err != store.ErrNotFound {
		t.Errorf("unknown user: got %v, want ErrNotFound", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	newTestUser(t, s, "user-1")

	// Lookup is case-insensitive.
	got, err := s.GetUserByEmail(ctx, "USER-1@Example.COM")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("got %s, want user-1", got.ID)
	}

	if _, err := s.GetUserByEmail(ctx, "nobody@example.com"); err != store.ErrNotFound {
		t.Errorf("unknown email: got %v, want ErrNotFound", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	u := newTestUser(t, s, "user-1")

	dup := *u
	dup.ID = "user-2"
	dup.Email = "User-1@example.com" // same address, different case
	if err := s.CreateUser(context.Background(), &dup); err != store.ErrAlreadyExists {
		t.Errorf("duplicate email: got %v, want ErrAlreadyExists", err)
	}
}
