package auth

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizora/quizora-api/internal/domain"
	"github.com/quizora/quizora-api/internal/store"
)

// fakeUserStore keeps users in memory keyed by email.
type fakeUserStore struct {
	byEmail map[string]*domain.User
	byID    map[uuid.UUID]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[uuid.UUID]*domain.User),
	}
}

func (f *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return store.ErrEmailExists
	}
	f.byEmail[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if user, ok := f.byEmail[email]; ok {
		return user, nil
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) WithTx(_ *sql.Tx) store.UserStore { return f }

func newTestUserService(t *testing.T) (*UserService, *fakeUserStore) {
	t.Helper()

	users := newFakeUserStore()
	jwt, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)

	// Lowest cost keeps the hashing in tests fast.
	verifier := NewBcryptVerifier(4)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := NewUserService(users, verifier, verifier, jwt, log)
	require.NoError(t, err)
	return svc, users
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("creates a user and issues tokens", func(t *testing.T) {
		t.Parallel()

		svc, users := newTestUserService(t)

		user, tokens, err := svc.Register(context.Background(), "alice@example.com", "sup3rsecret")

		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.NotEqual(t, "sup3rsecret", user.HashedPassword)
		assert.Contains(t, users.byEmail, "alice@example.com")
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestUserService(t)

		_, _, err := svc.Register(context.Background(), "alice@example.com", "short")

		assert.ErrorIs(t, err, domain.ErrInvalidPassword)
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestUserService(t)

		_, _, err := svc.Register(context.Background(), "alice@example.com", "sup3rsecret")
		require.NoError(t, err)

		_, _, err = svc.Register(context.Background(), "alice@example.com", "sup3rsecret")
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("rejects invalid emails", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestUserService(t)

		_, _, err := svc.Register(context.Background(), "not-an-email", "sup3rsecret")
		assert.Error(t, err)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials issue tokens", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestUserService(t)
		registered, _, err := svc.Register(context.Background(), "bob@example.com", "sup3rsecret")
		require.NoError(t, err)

		user, tokens, err := svc.Login(context.Background(), "bob@example.com", "sup3rsecret")

		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, tokens.AccessToken)
	})

	t.Run("wrong password and unknown email look identical", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestUserService(t)
		_, _, err := svc.Register(context.Background(), "bob@example.com", "sup3rsecret")
		require.NoError(t, err)

		_, _, wrongPass := svc.Login(context.Background(), "bob@example.com", "wrongpass")
		_, _, unknown := svc.Login(context.Background(), "nobody@example.com", "sup3rsecret")

		assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
		assert.ErrorIs(t, unknown, ErrInvalidCredentials)
		assert.Equal(t, wrongPass.Error(), unknown.Error())
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	t.Run("valid refresh token issues a new pair", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestUserService(t)
		_, tokens, err := svc.Register(context.Background(), "carol@example.com", "sup3rsecret")
		require.NoError(t, err)

		fresh, err := svc.Refresh(context.Background(), tokens.RefreshToken)

		require.NoError(t, err)
		assert.NotEmpty(t, fresh.AccessToken)
		assert.NotEmpty(t, fresh.RefreshToken)
	})

	t.Run("access token is refused", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestUserService(t)
		_, tokens, err := svc.Register(context.Background(), "carol@example.com", "sup3rsecret")
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), tokens.AccessToken)

		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("garbage token is refused", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestUserService(t)

		_, err := svc.Refresh(context.Background(), strings.Repeat("x", 40))

		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
