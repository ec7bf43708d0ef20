package auth

import (
	"errors"
	"net/http"

	"github.com/dd-app/accounts-api/internal/httputil"
	"github.com/dd-app/accounts-api/internal/logging"
	"github.com/dd-app/accounts-api/internal/user"
)

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
	accounts     AccountStore
}

func NewMiddleware(tokenService TokenService, accounts AccountStore) *Middleware {
	return &Middleware{tokenService: tokenService, accounts: accounts}
}

// RequireSession validates the session cookie and loads the account it
// names into the request context. The token proves identity on its own;
// the account re-fetch exists to reject blocked and deleted accounts,
// which a stateless token cannot know about.
func (m *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		token, err := SessionTokenFromRequest(r)
		if err != nil {
			httputil.RespondErrorWithCode(w, "No token provided", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		accountID, err := m.tokenService.VerifyToken(token)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				httputil.RespondErrorWithCode(w, "Token has expired", httputil.CodeTokenExpired, http.StatusUnauthorized)
			case errors.Is(err, ErrNotConfigured):
				logger.Error("session verification failed: session key not configured")
				httputil.RespondErrorWithCode(w, "Server configuration error", httputil.CodeServerMisconfig, http.StatusInternalServerError)
			default:
				httputil.RespondErrorWithCode(w, "Invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			}
			return
		}

		current, err := m.accounts.GetByID(r.Context(), accountID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				// Account deleted after the token was issued.
				httputil.RespondErrorWithCode(w, "Invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
				return
			}
			logger.Error("failed to load account for session", "error", err.Error())
			httputil.RespondErrorWithCode(w, "Failed to fetch user", httputil.CodeInternalError, http.StatusInternalServerError)
			return
		}

		if current.IsBlocked {
			logger.Warn("blocked account attempted access", "user_id", current.ID)
			httputil.RespondErrorWithCode(w, "Account is blocked", httputil.CodeAccountBlocked, http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(user.NewContext(r.Context(), current)))
	})
}
