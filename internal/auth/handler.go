package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dd-app/accounts-api/internal/httputil"
	"github.com/dd-app/accounts-api/internal/logging"
	"github.com/dd-app/accounts-api/internal/user"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service      *Service
	isProduction bool
	cookieMaxAge time.Duration
}

func NewHandler(service *Service, isProduction bool, cookieMaxAge time.Duration) *Handler {
	return &Handler{
		service:      service,
		isProduction: isProduction,
		cookieMaxAge: cookieMaxAge,
	}
}

// SignUpRequest represents the registration request body
type SignUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MessageResponse is a plain confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// SignUp handles user registration
// @Summary      Register a new user
// @Description  Create an account and start a session. The session token is set as an HttpOnly cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignUpRequest true "Registration fields"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing fields or email already taken"
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /api/auth/signup [post]
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid signup request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	newUser, token, err := h.service.SignUp(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrDuplicateEmail):
			logger.Warn("signup failed: email already exists")
			respondError(w, "User already exists", httputil.CodeEmailAlreadyExists, http.StatusBadRequest)
		case errors.Is(err, ErrEmailRequired):
			logger.Warn("signup failed: validation error", "error", err.Error())
			respondError(w, err.Error(), httputil.CodeEmailRequired, http.StatusBadRequest)
		case errors.Is(err, ErrPasswordRequired):
			logger.Warn("signup failed: validation error", "error", err.Error())
			respondError(w, err.Error(), httputil.CodePasswordRequired, http.StatusBadRequest)
		case errors.Is(err, ErrInvalidEmailFormat):
			logger.Warn("signup failed: validation error", "error", err.Error())
			respondError(w, err.Error(), httputil.CodeInvalidEmailFormat, http.StatusBadRequest)
		case errors.Is(err, ErrNotConfigured):
			logger.Error("signup failed: session key not configured")
			respondError(w, "Server configuration error", httputil.CodeServerMisconfig, http.StatusInternalServerError)
		default:
			logger.Error("signup failed: internal error", "error", err.Error())
			respondError(w, "Error creating user", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("user registered successfully", "user_id", newUser.ID)

	SetSessionCookie(w, token, h.isProduction, h.cookieMaxAge)
	respondJSON(w, MessageResponse{Message: "User created successfully"}, http.StatusOK)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate and start a session. The session token is set as an HttpOnly cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid credentials"
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		respondError(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	logger = logger.WithFields(map[string]any{"email": req.Email})

	existingUser, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			// One generic answer for unknown email and wrong password,
			// no account enumeration.
			logger.Warn("login failed: invalid credentials")
			respondError(w, "Invalid credentials", httputil.CodeInvalidCredentials, http.StatusBadRequest)
		case errors.Is(err, ErrNotConfigured):
			logger.Error("login failed: session key not configured")
			respondError(w, "Server configuration error", httputil.CodeServerMisconfig, http.StatusInternalServerError)
		default:
			logger.Error("login failed: internal error", "error", err.Error())
			respondError(w, "Error logging in", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("user logged in successfully", "user_id", existingUser.ID)

	SetSessionCookie(w, token, h.isProduction, h.cookieMaxAge)
	respondJSON(w, MessageResponse{Message: "Logged in successfully"}, http.StatusOK)
}

// Logout clears the session cookie. The token itself stays valid until it
// expires; there is no server-side revocation.
// @Summary      User logout
// @Tags         auth
// @Produce      json
// @Success      200 {object} MessageResponse
// @Router       /api/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ClearSessionCookie(w)

	logger.Info("user logged out")

	respondJSON(w, MessageResponse{Message: "Logged out successfully"}, http.StatusOK)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data any, statusCode int) {
	httputil.RespondJSON(w, data, statusCode)
}

// respondError sends an error response with a machine-readable code
func respondError(w http.ResponseWriter, message string, code string, statusCode int) {
	httputil.RespondErrorWithCode(w, message, code, statusCode)
}
