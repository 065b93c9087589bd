package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizora/quizora-api/internal/domain"
	"github.com/quizora/quizora-api/internal/service/auth"
	"github.com/quizora/quizora-api/internal/store"
)

// stubAuthenticator returns canned results for every operation.
type stubAuthenticator struct {
	user   *domain.User
	tokens *auth.TokenPair
	err    error
}

func (s *stubAuthenticator) Register(_ context.Context, _, _ string) (*domain.User, *auth.TokenPair, error) {
	return s.user, s.tokens, s.err
}

func (s *stubAuthenticator) Login(_ context.Context, _, _ string) (*domain.User, *auth.TokenPair, error) {
	return s.user, s.tokens, s.err
}

func (s *stubAuthenticator) Refresh(_ context.Context, _ string) (*auth.TokenPair, error) {
	return s.tokens, s.err
}

func testUser(t *testing.T) *domain.User {
	t.Helper()
	user, err := domain.NewUser("learner@example.com", "$2a$10$hashhashhashhashhashha")
	require.NoError(t, err)
	return user
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegisterHandler(t *testing.T) {
	tokens := &auth.TokenPair{AccessToken: "access", RefreshToken: "refresh"}

	t.Run("success", func(t *testing.T) {
		user := testUser(t)
		h := NewAuthHandler(&stubAuthenticator{user: user, tokens: tokens})

		rec := postJSON(t, h.Register, "/auth/register",
			`{"email":"learner@example.com","password":"longenough1"}`)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, user.ID, resp.UserID)
		assert.Equal(t, "access", resp.AccessToken)
		assert.Equal(t, "refresh", resp.RefreshToken)
	})

	t.Run("malformed body", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthenticator{})
		rec := postJSON(t, h.Register, "/auth/register", `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation failure", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthenticator{})
		rec := postJSON(t, h.Register, "/auth/register",
			`{"email":"not-an-email","password":"longenough1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("short password", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthenticator{})
		rec := postJSON(t, h.Register, "/auth/register",
			`{"email":"learner@example.com","password":"short"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate email", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthenticator{err: store.ErrEmailExists})
		rec := postJSON(t, h.Register, "/auth/register",
			`{"email":"learner@example.com","password":"longenough1"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestLoginHandler(t *testing.T) {
	tokens := &auth.TokenPair{AccessToken: "access", RefreshToken: "refresh"}

	t.Run("success", func(t *testing.T) {
		user := testUser(t)
		h := NewAuthHandler(&stubAuthenticator{user: user, tokens: tokens})

		rec := postJSON(t, h.Login, "/auth/login",
			`{"email":"learner@example.com","password":"longenough1"}`)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("bad credentials", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthenticator{err: auth.ErrInvalidCredentials})
		rec := postJSON(t, h.Login, "/auth/login",
			`{"email":"learner@example.com","password":"wrongpass"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid credentials")
	})
}

func TestRefreshHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tokens := &auth.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}
		h := NewAuthHandler(&stubAuthenticator{tokens: tokens})

		rec := postJSON(t, h.Refresh, "/auth/refresh", `{"refresh_token":"old-refresh"}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, uuid.Nil, resp.UserID)
		assert.Equal(t, "new-access", resp.AccessToken)
	})

	t.Run("invalid refresh token", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthenticator{err: auth.ErrInvalidToken})
		rec := postJSON(t, h.Refresh, "/auth/refresh", `{"refresh_token":"garbage"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		h := NewAuthHandler(&stubAuthenticator{})
		rec := postJSON(t, h.Refresh, "/auth/refresh", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
