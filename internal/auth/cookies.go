package auth

import (
	"errors"
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

// ErrNoSessionCookie means the request carried no session cookie.
var ErrNoSessionCookie = errors.New("no session cookie")

// SetSessionCookie attaches the session token to the response. HttpOnly and
// SameSite=Strict always; Secure only in production so local development
// over plain HTTP still works. The cookie max-age is shorter than the
// token's own lifetime: the browser stops sending the cookie before the
// token itself would expire server-side.
func SetSessionCookie(w http.ResponseWriter, token string, isProduction bool, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearSessionCookie removes the session cookie from the client. This is
// transport-layer logout only: an already-issued token stays valid until
// its expiry, there is no server-side revocation.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// SessionTokenFromRequest extracts the session token from the request cookie.
func SessionTokenFromRequest(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", ErrNoSessionCookie
	}
	if cookie.Value == "" {
		return "", ErrNoSessionCookie
	}
	return cookie.Value, nil
}
