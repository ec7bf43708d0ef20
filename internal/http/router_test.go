package http

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/require"

	"github.com/dd-app/accounts-api/internal/auth"
	"github.com/dd-app/accounts-api/internal/config"
	"github.com/dd-app/accounts-api/internal/logging"
	"github.com/dd-app/accounts-api/internal/user"
)

// memAccounts is an in-memory store satisfying both auth.AccountStore and
// user.Store, so the whole router can be exercised without Postgres.
type memAccounts struct {
	mu    sync.Mutex
	users []*user.User
}

func (s *memAccounts) Create(ctx context.Context, email, name, passwordHash string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return nil, user.ErrDuplicateEmail
		}
	}

	now := time.Now()
	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		LastLoginAt:  &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if name != "" {
		u.Name = &name
	}
	s.users = append(s.users, u)

	copied := *u
	return &copied, nil
}

func (s *memAccounts) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *memAccounts) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *memAccounts) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == userID {
			u.LastLoginAt = &at
			return nil
		}
	}
	return user.ErrNotFound
}

func (s *memAccounts) List(ctx context.Context) ([]user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]user.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *memAccounts) SetBlocked(ctx context.Context, userIDs []uuid.UUID, blocked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range userIDs {
		for _, u := range s.users {
			if u.ID == id {
				u.IsBlocked = blocked
			}
		}
	}
	return nil
}

func (s *memAccounts) DeleteMany(ctx context.Context, userIDs []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.users[:0]
	for _, u := range s.users {
		remove := false
		for _, id := range userIDs {
			if u.ID == id {
				remove = true
				break
			}
		}
		if !remove {
			kept = append(kept, u)
		}
	}
	s.users = kept
	return nil
}

func newTestRouter(t *testing.T) (http.Handler, *memAccounts) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Env = "prod" // keep swagger and dev logging out of tests
	cfg.Session.TokenDuration = 30 * 24 * time.Hour
	cfg.Session.CookieMaxAge = 10 * 24 * time.Hour

	store := &memAccounts{}
	key := []byte("0123456789abcdef0123456789abcdef")
	tokenService := auth.NewPasetoService(key, cfg.Session.TokenDuration)
	authService := auth.NewService(store, tokenService)
	authHandler := auth.NewHandler(authService, false, cfg.Session.CookieMaxAge)
	authMiddleware := auth.NewMiddleware(tokenService, store)
	userHandler := user.NewHandler(store)
	logger := logging.NewLogger(false)

	return NewRouter(cfg, authHandler, authMiddleware, userHandler, logger), store
}

// sessionCookie pulls the session cookie out of an apitest result.
func sessionCookie(t *testing.T, result apitest.Result) *http.Cookie {
	t.Helper()
	for _, c := range result.Response.Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)

	apitest.Handler(router).
		Get("/health").
		Expect(t).
		Status(http.StatusOK).
		End()
}

func TestSignupLoginFetchFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	result := apitest.Handler(router).
		Post("/api/auth/signup").
		JSON(`{"username": "Ada", "email": "ada@example.com", "password": "s3cret"}`).
		Expect(t).
		Status(http.StatusOK).
		End()

	cookie := sessionCookie(t, result)
	require.NotEmpty(t, cookie.Value)

	apitest.Handler(router).
		Get("/api/fetch-user").
		Cookies(apitest.NewCookie(auth.SessionCookieName).Value(cookie.Value)).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal(`$.user.email`, "ada@example.com")).
		End()

	// Fresh login works too and returns a usable cookie
	result = apitest.Handler(router).
		Post("/api/auth/login").
		JSON(`{"email": "ada@example.com", "password": "s3cret"}`).
		Expect(t).
		Status(http.StatusOK).
		End()

	cookie = sessionCookie(t, result)

	apitest.Handler(router).
		Get("/api/users").
		Cookies(apitest.NewCookie(auth.SessionCookieName).Value(cookie.Value)).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len(`$.users`, 1)).
		End()
}

func TestProtectedRoutesNeedSession(t *testing.T) {
	router, _ := newTestRouter(t)

	apitest.Handler(router).
		Get("/api/users").
		Expect(t).
		Status(http.StatusUnauthorized).
		End()

	apitest.Handler(router).
		Get("/api/fetch-user").
		Cookies(apitest.NewCookie(auth.SessionCookieName).Value("garbage")).
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
}

func TestBlockUnblockDeleteFlow(t *testing.T) {
	router, store := newTestRouter(t)

	// Admin and a target account
	result := apitest.Handler(router).
		Post("/api/auth/signup").
		JSON(`{"username": "Admin", "email": "admin@example.com", "password": "pw"}`).
		Expect(t).
		Status(http.StatusOK).
		End()
	adminCookie := sessionCookie(t, result)

	result = apitest.Handler(router).
		Post("/api/auth/signup").
		JSON(`{"username": "Target", "email": "target@example.com", "password": "pw"}`).
		Expect(t).
		Status(http.StatusOK).
		End()
	targetCookie := sessionCookie(t, result)

	target, err := store.GetByEmail(context.Background(), "target@example.com")
	require.NoError(t, err)

	// Block the target; their still-valid token now bounces with 403
	apitest.Handler(router).
		Post("/api/users/block").
		JSON(`{"user_ids": ["`+target.ID.String()+`"]}`).
		Cookies(apitest.NewCookie(auth.SessionCookieName).Value(adminCookie.Value)).
		Expect(t).
		Status(http.StatusOK).
		End()

	apitest.Handler(router).
		Get("/api/fetch-user").
		Cookies(apitest.NewCookie(auth.SessionCookieName).Value(targetCookie.Value)).
		Expect(t).
		Status(http.StatusForbidden).
		End()

	// Unblock restores access
	apitest.Handler(router).
		Post("/api/users/unblock").
		JSON(`{"user_ids": ["`+target.ID.String()+`"]}`).
		Cookies(apitest.NewCookie(auth.SessionCookieName).Value(adminCookie.Value)).
		Expect(t).
		Status(http.StatusOK).
		End()

	apitest.Handler(router).
		Get("/api/fetch-user").
		Cookies(apitest.NewCookie(auth.SessionCookieName).Value(targetCookie.Value)).
		Expect(t).
		Status(http.StatusOK).
		End()

	// Delete the target; their token is now unauthorized
	apitest.Handler(router).
		Delete("/api/users/delete").
		JSON(`{"user_ids": ["`+target.ID.String()+`"]}`).
		Cookies(apitest.NewCookie(auth.SessionCookieName).Value(adminCookie.Value)).
		Expect(t).
		Status(http.StatusOK).
		End()

	apitest.Handler(router).
		Get("/api/fetch-user").
		Cookies(apitest.NewCookie(auth.SessionCookieName).Value(targetCookie.Value)).
		Expect(t).
		Status(http.StatusUnauthorized).
		End()

	apitest.Handler(router).
		Get("/api/users").
		Cookies(apitest.NewCookie(auth.SessionCookieName).Value(adminCookie.Value)).
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len(`$.users`, 1)).
		End()
}

func TestLogout(t *testing.T) {
	router, _ := newTestRouter(t)

	result := apitest.Handler(router).
		Post("/api/auth/signup").
		JSON(`{"username": "Bea", "email": "bea@example.com", "password": "pw"}`).
		Expect(t).
		Status(http.StatusOK).
		End()
	cookie := sessionCookie(t, result)

	result = apitest.Handler(router).
		Post("/api/logout").
		Cookies(apitest.NewCookie(auth.SessionCookieName).Value(cookie.Value)).
		Expect(t).
		Status(http.StatusOK).
		End()

	cleared := sessionCookie(t, result)
	require.Empty(t, cleared.Value)
	require.Negative(t, cleared.MaxAge)

	// A client honoring the cleared cookie is unauthenticated again
	apitest.Handler(router).
		Get("/api/fetch-user").
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
}
