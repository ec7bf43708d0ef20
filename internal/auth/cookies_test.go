package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findSessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatalf("no %q cookie in response", SessionCookieName)
	return nil
}

func TestSetSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "some-token", false, 10*24*time.Hour)

	cookie := findSessionCookie(t, rec)
	assert.Equal(t, "some-token", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.False(t, cookie.Secure)
	assert.Equal(t, int((10 * 24 * time.Hour).Seconds()), cookie.MaxAge)
}

func TestSetSessionCookieSecureInProduction(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "some-token", true, time.Hour)

	cookie := findSessionCookie(t, rec)
	assert.True(t, cookie.Secure)
}

func TestClearSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearSessionCookie(rec)

	cookie := findSessionCookie(t, rec)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestSessionTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"})

	token, err := SessionTokenFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
}

func TestSessionTokenFromRequestMissing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := SessionTokenFromRequest(r)
	assert.ErrorIs(t, err, ErrNoSessionCookie)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: ""})

	_, err = SessionTokenFromRequest(r)
	assert.ErrorIs(t, err, ErrNoSessionCookie)
}
