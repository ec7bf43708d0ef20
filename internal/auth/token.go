package auth

import (
	"errors"
	"strings"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"
)

var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")

	// ErrNotConfigured is returned by every issue/verify call when the
	// signing key was absent or the wrong length at startup. Surfaced to
	// clients as a 500, never as an authentication failure.
	ErrNotConfigured = errors.New("session signing key is not configured")
)

// TokenService defines the interface for session token issuance and verification.
type TokenService interface {
	IssueToken(accountID uuid.UUID) (string, error)
	VerifyToken(tokenStr string) (uuid.UUID, error)
}

const v4LocalPrefix = "v4.local."

// PasetoService issues and verifies PASETO v4.local session tokens
// (symmetric encryption with XChaCha20-Poly1305). The key is loaded once;
// it is read-only afterwards and safe for concurrent use.
type PasetoService struct {
	symmetricKey  paseto.V4SymmetricKey
	configured    bool
	tokenDuration time.Duration
}

// NewPasetoService builds the token service. A key that is not exactly
// 32 bytes yields an unconfigured service: construction never fails, but
// every IssueToken/VerifyToken call returns ErrNotConfigured.
func NewPasetoService(symmetricKey []byte, tokenDuration time.Duration) *PasetoService {
	if len(symmetricKey) != 32 {
		return &PasetoService{configured: false, tokenDuration: tokenDuration}
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return &PasetoService{configured: false, tokenDuration: tokenDuration}
	}

	return &PasetoService{
		symmetricKey:  key,
		configured:    true,
		tokenDuration: tokenDuration,
	}
}

// Configured reports whether a usable signing key was provided.
func (s *PasetoService) Configured() bool {
	return s.configured
}

// IssueToken generates a token binding the account ID, expiring
// tokenDuration from now.
func (s *PasetoService) IssueToken(accountID uuid.UUID) (string, error) {
	if !s.configured {
		return "", ErrNotConfigured
	}

	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(s.tokenDuration))
	token.SetSubject(accountID.String())

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// VerifyToken validates a token and returns the account ID it binds.
// A wrong key and a tampered payload are indistinguishable under v4.local;
// both come back as ErrTokenInvalid. Strings that are not even v4.local
// tokens come back as ErrTokenMalformed.
func (s *PasetoService) VerifyToken(tokenStr string) (uuid.UUID, error) {
	if !s.configured {
		return uuid.Nil, ErrNotConfigured
	}

	if !strings.HasPrefix(tokenStr, v4LocalPrefix) {
		return uuid.Nil, ErrTokenMalformed
	}

	parser := paseto.NewParser()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		// The parser checks expiration by default; distinguish expired from invalid
		if errors.Is(err, &paseto.RuleError{}) {
			return uuid.Nil, ErrTokenExpired
		}
		return uuid.Nil, ErrTokenInvalid
	}

	subject, err := token.GetSubject()
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}

	accountID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}

	return accountID, nil
}
