package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/dd-app/accounts-api/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrInvalidEmailFormat = errors.New("invalid email format")
)

// AccountStore is the persistence surface the auth flows need.
// *user.Repository satisfies it.
type AccountStore interface {
	Create(ctx context.Context, email, name, passwordHash string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

// Service handles registration and login
type Service struct {
	accounts     AccountStore
	tokenService TokenService
}

func NewService(accounts AccountStore, tokenService TokenService) *Service {
	return &Service{
		accounts:     accounts,
		tokenService: tokenService,
	}
}

// SignUp creates a new account and issues a session token for it.
// The display name is optional.
func (s *Service) SignUp(ctx context.Context, email, name, password string) (*user.User, string, error) {
	if email == "" {
		return nil, "", ErrEmailRequired
	}
	if len(email) > 254 {
		return nil, "", ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", ErrInvalidEmailFormat
	}
	if password == "" {
		return nil, "", ErrPasswordRequired
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.accounts.Create(ctx, email, name, passwordHash)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, "", user.ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokenService.IssueToken(newUser.ID)
	if err != nil {
		return nil, "", err
	}

	return newUser, token, nil
}

// Login authenticates an account and issues a session token for it.
// Unknown email and wrong password both surface as ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	existingUser, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := VerifyPassword(existingUser.PasswordHash, password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokenService.IssueToken(existingUser.ID)
	if err != nil {
		return nil, "", err
	}

	if err := s.accounts.UpdateLastLogin(ctx, existingUser.ID, time.Now()); err != nil {
		return nil, "", fmt.Errorf("failed to update last login: %w", err)
	}

	return existingUser, token, nil
}
