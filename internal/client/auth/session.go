// Package auth holds the client session: the access token issued by the
// backend, persisted in the OS keyring.
package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zalando/go-keyring"
)

const (
	DefaultService = "gatherly"
	tokenUser      = "access_token"
)

var ErrMalformedToken = errors.New("malformed access token")

// Claims mirrors what the backend signs into its tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// KeyringSession is the authentication signal consumed by the remote
// client. It does not verify the token signature; the backend does.
type KeyringSession struct {
	service string
	now     func() time.Time

	mu        sync.RWMutex
	token     string
	accountID string
	expiresAt time.Time
}

func NewKeyringSession(service string) *KeyringSession {
	if service == "" {
		service = DefaultService
	}
	return &KeyringSession{service: service, now: time.Now}
}

// Load reads a previously saved token. A missing entry leaves the session
// signed out.
func (s *KeyringSession) Load() error {
	token, err := keyring.Get(s.service, tokenUser)
	if errors.Is(err, keyring.ErrNotFound) {
		s.reset()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read keyring: %w", err)
	}
	return s.apply(token)
}

// Save stores token in the keyring and makes it current.
func (s *KeyringSession) Save(token string) error {
	if err := s.apply(token); err != nil {
		return err
	}
	if err := keyring.Set(s.service, tokenUser, token); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

func (s *KeyringSession) Clear() error {
	s.reset()
	err := keyring.Delete(s.service, tokenUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete keyring entry: %w", err)
	}
	return nil
}

func (s *KeyringSession) apply(token string) error {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	account := claims.UserID
	if account == "" {
		account = claims.Subject
	}
	if account == "" {
		return fmt.Errorf("%w: no subject", ErrMalformedToken)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.accountID = account
	s.expiresAt = time.Time{}
	if claims.ExpiresAt != nil {
		s.expiresAt = claims.ExpiresAt.Time
	}
	return nil
}

func (s *KeyringSession) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.accountID, s.expiresAt = "", "", time.Time{}
}

func (s *KeyringSession) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return false
	}
	return s.expiresAt.IsZero() || s.now().Before(s.expiresAt)
}

func (s *KeyringSession) AccountID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accountID
}

func (s *KeyringSession) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// ExpiresAt is zero for tokens without an expiry.
func (s *KeyringSession) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}
