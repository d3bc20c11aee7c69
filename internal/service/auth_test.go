package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cellarapp/cellar-server/internal/auth"
	domainerrors "github.com/cellarapp/cellar-server/internal/errors"
	"github.com/cellarapp/cellar-server/internal/store/sqlite"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := sqlite.Open(dbPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	keyHex := strings.Repeat("ab", 32)
	tokens, err := auth.NewTokenService(keyHex, time.Hour)
	require.NoError(t, err)

	return NewAuthService(s, tokens, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Email:       "taster@example.com",
		Password:    "correct-horse",
		DisplayName: "Taster",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "taster@example.com", resp.User.Email)
	assert.NotEqual(t, "correct-horse", resp.User.PasswordHash, "password must not be stored in clear")

	// The issued token verifies and carries the user ID.
	claims, err := svc.VerifyAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	login, err := svc.Login(ctx, LoginRequest{
		Email:    "Taster@Example.com", // case-insensitive
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	req := RegisterRequest{
		Email:       "taster@example.com",
		Password:    "correct-horse",
		DisplayName: "Taster",
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestLoginFailures(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{
		Email:       "taster@example.com",
		Password:    "correct-horse",
		DisplayName: "Taster",
	})
	require.NoError(t, err)

	// Wrong password and unknown email yield the same error.
	_, err = svc.Login(ctx, LoginRequest{Email: "taster@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestVerifyAccessTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.VerifyAccessToken("v4.local.not-a-real-token")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}
