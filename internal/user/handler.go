package user

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/dd-app/accounts-api/internal/httputil"
	"github.com/dd-app/accounts-api/internal/logging"
)

// Store is the persistence surface the admin handlers need.
// *Repository satisfies it.
type Store interface {
	List(ctx context.Context) ([]User, error)
	SetBlocked(ctx context.Context, userIDs []uuid.UUID, blocked bool) error
	DeleteMany(ctx context.Context, userIDs []uuid.UUID) error
}

// Handler contains HTTP handlers for the user admin panel
type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// UserIDsRequest is the body of the bulk block/unblock/delete endpoints
type UserIDsRequest struct {
	UserIDs []uuid.UUID `json:"user_ids"`
}

// ListResponse is the body of the user listing endpoint
type ListResponse struct {
	Users         []User    `json:"users"`
	CurrentUserID uuid.UUID `json:"current_user_id"`
}

// FetchUserResponse wraps the authenticated user's own record
type FetchUserResponse struct {
	User *User `json:"user"`
}

// FetchUser returns the authenticated caller's own account
// @Summary      Fetch current user
// @Tags         users
// @Produce      json
// @Success      200 {object} FetchUserResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /api/fetch-user [get]
func (h *Handler) FetchUser(w http.ResponseWriter, r *http.Request) {
	current, ok := FromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	httputil.RespondJSON(w, FetchUserResponse{User: current}, http.StatusOK)
}

// ListUsers returns every account plus the caller's own ID
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200 {object} ListResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /api/users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	currentID, ok := IDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	users, err := h.store.List(r.Context())
	if err != nil {
		logger.Error("failed to list users", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to fetch users", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, ListResponse{Users: users, CurrentUserID: currentID}, http.StatusOK)
}

// BlockUsers marks the given accounts as blocked
// @Summary      Block users
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body UserIDsRequest true "User IDs"
// @Success      200 {object} map[string]string
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /api/users/block [post]
func (h *Handler) BlockUsers(w http.ResponseWriter, r *http.Request) {
	h.bulkUpdate(w, r, "block", func(ctx context.Context, ids []uuid.UUID) error {
		return h.store.SetBlocked(ctx, ids, true)
	}, "Users blocked successfully")
}

// UnblockUsers clears the blocked flag on the given accounts
// @Summary      Unblock users
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body UserIDsRequest true "User IDs"
// @Success      200 {object} map[string]string
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /api/users/unblock [post]
func (h *Handler) UnblockUsers(w http.ResponseWriter, r *http.Request) {
	h.bulkUpdate(w, r, "unblock", func(ctx context.Context, ids []uuid.UUID) error {
		return h.store.SetBlocked(ctx, ids, false)
	}, "Users unblocked successfully")
}

// DeleteUsers removes the given accounts
// @Summary      Delete users
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body UserIDsRequest true "User IDs"
// @Success      200 {object} map[string]string
// @Failure      400 {object} httputil.ErrorResponse
// @Router       /api/users/delete [delete]
func (h *Handler) DeleteUsers(w http.ResponseWriter, r *http.Request) {
	h.bulkUpdate(w, r, "delete", h.store.DeleteMany, "Users deleted successfully")
}

func (h *Handler) bulkUpdate(w http.ResponseWriter, r *http.Request, action string, op func(context.Context, []uuid.UUID) error, successMessage string) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req UserIDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid bulk request body", "action", action, "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if len(req.UserIDs) == 0 {
		logger.Warn("bulk request without user ids", "action", action)
		httputil.RespondErrorWithCode(w, "user_ids is required", httputil.CodeUserIDsRequired, http.StatusBadRequest)
		return
	}

	if err := op(r.Context(), req.UserIDs); err != nil {
		logger.Error("bulk user update failed", "action", action, "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to "+action+" users", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("bulk user update succeeded", "action", action, "count", len(req.UserIDs))

	httputil.RespondJSON(w, map[string]string{"message": successMessage}, http.StatusOK)
}
