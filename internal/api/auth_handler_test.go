package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/skuehn/lernbox/internal/config"
	"github.com/skuehn/lernbox/internal/domain"
	"github.com/skuehn/lernbox/internal/service/auth"
	"github.com/skuehn/lernbox/internal/store"
)

// fakeUserStore is an in-memory store.UserStore. Like the real store it
// hashes the plaintext Password on Create.
type fakeUserStore struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	if user.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.MinCost)
		if err != nil {
			return err
		}
		user.HashedPassword = string(hashed)
		user.Password = ""
	}
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	found := *user
	return &found, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:                   "test-jwt-secret-that-is-32-chars-long",
		BCryptCost:                  bcrypt.MinCost,
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	}
}

func newTestAuthHandler(t *testing.T) (*AuthHandler, *fakeUserStore, auth.JWTService) {
	t.Helper()

	authConfig := testAuthConfig()
	jwtService, err := auth.NewJWTService(*authConfig)
	require.NoError(t, err)

	userStore := newFakeUserStore()
	handler := NewAuthHandler(userStore, jwtService, auth.NewBcryptVerifier(), authConfig)
	return handler, userStore, jwtService
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", target, bytes.NewReader(body))
	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func TestRegister(t *testing.T) {
	t.Run("creates user and returns token pair", func(t *testing.T) {
		handler, _, jwtService := newTestAuthHandler(t)

		recorder := postJSON(t, handler.Register, "/api/auth/register", map[string]string{
			"email":    "learner@example.com",
			"password": "a-long-enough-password",
		})

		require.Equal(t, http.StatusCreated, recorder.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.NotEqual(t, uuid.Nil, resp.UserID)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.NotEmpty(t, resp.ExpiresAt)

		claims, err := jwtService.ValidateToken(context.Background(), resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, resp.UserID, claims.UserID)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		handler, _, _ := newTestAuthHandler(t)

		payload := map[string]string{
			"email":    "learner@example.com",
			"password": "a-long-enough-password",
		}
		require.Equal(t, http.StatusCreated, postJSON(t, handler.Register, "/api/auth/register", payload).Code)

		recorder := postJSON(t, handler.Register, "/api/auth/register", payload)
		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Email already exists")
	})

	t.Run("rejects short password", func(t *testing.T) {
		handler, userStore, _ := newTestAuthHandler(t)

		recorder := postJSON(t, handler.Register, "/api/auth/register", map[string]string{
			"email":    "learner@example.com",
			"password": "short",
		})

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Empty(t, userStore.users)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		handler, _, _ := newTestAuthHandler(t)

		req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewReader([]byte(`{"email":`)))
		recorder := httptest.NewRecorder()
		handler.Register(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestLogin(t *testing.T) {
	registered := map[string]string{
		"email":    "learner@example.com",
		"password": "a-long-enough-password",
	}

	setup := func(t *testing.T) *AuthHandler {
		handler, _, _ := newTestAuthHandler(t)
		require.Equal(t, http.StatusCreated, postJSON(t, handler.Register, "/api/auth/register", registered).Code)
		return handler
	}

	t.Run("valid credentials", func(t *testing.T) {
		handler := setup(t)

		recorder := postJSON(t, handler.Login, "/api/auth/login", registered)

		require.Equal(t, http.StatusOK, recorder.Code)
		var resp AuthResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		handler := setup(t)

		wrongPassword := postJSON(t, handler.Login, "/api/auth/login", map[string]string{
			"email":    registered["email"],
			"password": "not-the-password",
		})
		unknownEmail := postJSON(t, handler.Login, "/api/auth/login", map[string]string{
			"email":    "nobody@example.com",
			"password": registered["password"],
		})

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
		assert.JSONEq(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	})

	t.Run("rejects empty password", func(t *testing.T) {
		handler := setup(t)

		recorder := postJSON(t, handler.Login, "/api/auth/login", map[string]string{
			"email":    registered["email"],
			"password": "",
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestRefreshToken(t *testing.T) {
	register := func(t *testing.T, handler *AuthHandler) AuthResponse {
		recorder := postJSON(t, handler.Register, "/api/auth/register", map[string]string{
			"email":    "learner@example.com",
			"password": "a-long-enough-password",
		})
		require.Equal(t, http.StatusCreated, recorder.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
		return resp
	}

	t.Run("valid refresh token rotates the pair", func(t *testing.T) {
		handler, _, jwtService := newTestAuthHandler(t)
		registered := register(t, handler)

		recorder := postJSON(t, handler.RefreshToken, "/api/auth/refresh", map[string]string{
			"refresh_token": registered.RefreshToken,
		})

		require.Equal(t, http.StatusOK, recorder.Code)
		var resp RefreshTokenResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))

		claims, err := jwtService.ValidateToken(context.Background(), resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, registered.UserID, claims.UserID)
		assert.NotEmpty(t, resp.RefreshToken)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		handler, _, _ := newTestAuthHandler(t)
		registered := register(t, handler)

		recorder := postJSON(t, handler.RefreshToken, "/api/auth/refresh", map[string]string{
			"refresh_token": registered.AccessToken,
		})

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Invalid refresh token")
	})

	t.Run("garbage token unauthorized", func(t *testing.T) {
		handler, _, _ := newTestAuthHandler(t)

		recorder := postJSON(t, handler.RefreshToken, "/api/auth/refresh", map[string]string{
			"refresh_token": "not-a-jwt",
		})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("missing token field", func(t *testing.T) {
		handler, _, _ := newTestAuthHandler(t)

		recorder := postJSON(t, handler.RefreshToken, "/api/auth/refresh", map[string]string{})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
