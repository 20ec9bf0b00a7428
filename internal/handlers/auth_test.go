package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/workspace-task-api/internal/dto"
	"github.com/yukikurage/workspace-task-api/internal/ratelimit"
	"github.com/yukikurage/workspace-task-api/internal/testutil"
)

func signupPayload(email string) dto.SignupRequest {
	return dto.SignupRequest{
		Email:     email,
		Password:  "supersecret",
		FirstName: "Alice",
		LastName:  "Smith",
	}
}

func TestAuthHandler_Signup(t *testing.T) {
	env := setupHandlerTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/auth/signup", signupPayload("alice@example.com"), "")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	response := decode[dto.AuthResponse](t, w)
	require.Equal(t, "User registered successfully", response.Message)
	require.Equal(t, "alice@example.com", response.User.Email)
	require.Equal(t, "Alice", response.User.FirstName)
	require.NotContains(t, w.Body.String(), "password")

	cookie := findCookie(w, testCookieName)
	require.NotNil(t, cookie, "expected access token cookie to be set")
	require.NotEmpty(t, cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, "/", cookie.Path)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	require.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)

	claims, err := env.tokens.Verify(cookie.Value)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", claims.Email)
}

func TestAuthHandler_Signup_DuplicateEmail(t *testing.T) {
	env := setupHandlerTestEnv(t, nil)
	testutil.CreateUser(t, env.db, "alice@example.com")

	w := env.do(t, http.MethodPost, "/auth/signup", signupPayload("Alice@Example.com"), "")

	requireAPIError(t, w, http.StatusConflict, "A user with this email already exists")
}

func TestAuthHandler_Signup_Validation(t *testing.T) {
	env := setupHandlerTestEnv(t, nil)

	payload := signupPayload("not-an-email")
	payload.Password = "123"
	w := env.do(t, http.MethodPost, "/auth/signup", payload, "")

	requireAPIError(t, w, http.StatusBadRequest, "email must be a valid email address")
	requireAPIError(t, w, http.StatusBadRequest, "password must be at least 6 characters")
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupHandlerTestEnv(t, nil)
	testutil.CreateUser(t, env.db, "existing@example.com")

	w := env.do(t, http.MethodPost, "/auth/login", dto.LoginRequest{
		Email:    "existing@example.com",
		Password: "password123",
	}, "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	response := decode[dto.AuthResponse](t, w)
	require.Equal(t, "Login successful", response.Message)
	require.Equal(t, "existing@example.com", response.User.Email)
	require.NotNil(t, findCookie(w, testCookieName), "expected access token cookie to be set")
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	env := setupHandlerTestEnv(t, nil)
	testutil.CreateUser(t, env.db, "existing@example.com")

	tests := []struct {
		name  string
		email string
	}{
		{name: "wrong password", email: "existing@example.com"},
		{name: "unknown email", email: "alice@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/auth/login", dto.LoginRequest{
				Email:    tt.email,
				Password: "wrong-password",
			}, "")

			requireAPIError(t, w, http.StatusUnauthorized, "Invalid email or password")
			require.Nil(t, findCookie(w, testCookieName))
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupHandlerTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/auth/logout", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Logout successful", decode[dto.MessageResponse](t, w).Message)

	cookie := findCookie(w, testCookieName)
	require.NotNil(t, cookie)
	require.Empty(t, cookie.Value)
	require.Equal(t, -1, cookie.MaxAge)
	require.True(t, cookie.HttpOnly)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupHandlerTestEnv(t, nil)
	user := testutil.CreateUser(t, env.db, "current@example.com")

	t.Run("bearer token", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/auth/me", nil, env.tokenFor(t, user))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Equal(t, user.ID, decode[dto.CurrentUserResponse](t, w).User.ID)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: env.tokenFor(t, user)})
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Equal(t, "current@example.com", decode[dto.CurrentUserResponse](t, w).User.Email)
	})

	t.Run("no token", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/auth/me", nil, "")
		requireAPIError(t, w, http.StatusUnauthorized, "No authentication token provided")
	})

	t.Run("garbage token", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/auth/me", nil, "not.a.jwt")
		requireAPIError(t, w, http.StatusUnauthorized, "Invalid token")
	})
}

type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (ratelimit.Result, error) {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return ratelimit.Result{}, s.err
	}
	return ratelimit.Result{Allowed: s.allowed, Limit: 20, Reset: time.Now().Add(time.Minute)}, nil
}

func TestAuthHandler_Login_RateLimited(t *testing.T) {
	limiter := &stubLimiter{allowed: false}
	env := setupHandlerTestEnv(t, nil, withLimiter(limiter))

	w := env.do(t, http.MethodPost, "/auth/login", dto.LoginRequest{
		Email:    "existing@example.com",
		Password: "password123",
	}, "")

	requireAPIError(t, w, http.StatusTooManyRequests, "")
	require.Len(t, limiter.keys, 1)
	require.Contains(t, limiter.keys[0], "login:")
}

func TestAuthHandler_Signup_LimiterDownFailsOpen(t *testing.T) {
	limiter := &stubLimiter{err: errors.New("redis: connection refused")}
	env := setupHandlerTestEnv(t, nil, withLimiter(limiter))

	w := env.do(t, http.MethodPost, "/auth/signup", signupPayload("bob@example.com"), "")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestAuthHandler_RegisterThenLogin(t *testing.T) {
	env := setupHandlerTestEnv(t, nil)

	payload := signupPayload("alice@example.com")
	payload.Password = "secret1"
	w := env.do(t, http.MethodPost, "/auth/signup", payload, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/auth/login", dto.LoginRequest{Email: "alice@example.com", Password: "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "alice@example.com", decode[dto.AuthResponse](t, w).User.Email)

	w = env.do(t, http.MethodPost, "/auth/login", dto.LoginRequest{Email: "alice@example.com", Password: "secret2"}, "")
	requireAPIError(t, w, http.StatusUnauthorized, "Invalid email or password")
}
