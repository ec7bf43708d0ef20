package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dd-app/accounts-api/internal/user"
)

// memStore is an in-memory AccountStore for tests.
type memStore struct {
	mu      sync.Mutex
	byEmail map[string]*user.User
}

func newMemStore() *memStore {
	return &memStore{byEmail: make(map[string]*user.User)}
}

func (s *memStore) Create(ctx context.Context, email, name, passwordHash string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return nil, user.ErrDuplicateEmail
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
	s.byEmail[email] = u

	copied := *u
	return &copied, nil
}

func (s *memStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *memStore) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.byEmail {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *memStore) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.byEmail {
		if u.ID == userID {
			u.LastLoginAt = &at
			return nil
		}
	}
	return user.ErrNotFound
}

func (s *memStore) setBlocked(email string, blocked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byEmail[email]; ok {
		u.IsBlocked = blocked
	}
}

func (s *memStore) delete(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byEmail, email)
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byEmail)
}
