package user

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	// CurrentUserContextKey holds the authenticated *User for the request.
	CurrentUserContextKey ContextKey = "current_user"
)

// NewContext returns a context carrying the authenticated user.
func NewContext(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, CurrentUserContextKey, u)
}

// FromContext extracts the authenticated user from the request context
func FromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(CurrentUserContextKey).(*User)
	return u, ok
}

// IDFromContext extracts the authenticated user's ID from the request context
func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	u, ok := FromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return u.ID, true
}
