package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gatherly/internal/client/client"
	"github.com/dmitrijs2005/gatherly/internal/client/repositories/metadata"
)

// KeyAccountEmail remembers who is signed in, for display while offline.
const KeyAccountEmail = "account_email"

// AuthService defines the account operations of the CLI.
//
// Contract:
//   - Login: obtain a token from the backend and persist it as the session.
//   - Register: create an account; a returned token signs the user in.
//   - Logout: drop the persisted session.
//   - Ping: report whether the backend is reachable.
//   - CurrentAccount: the e-mail of the last login, empty when signed out.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) error
	Register(ctx context.Context, email string, password []byte) error
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	CurrentAccount(ctx context.Context) (string, error)
	Close(ctx context.Context) error
}

// SessionStore persists the access token between runs.
type SessionStore interface {
	Save(token string) error
	Clear() error
}

// Pinger probes backend liveness.
type Pinger interface {
	Ping(ctx context.Context) error
	Close() error
}

type authService struct {
	auth    client.Authenticator
	session SessionStore
	health  Pinger
	meta    metadata.Repository
}

func NewAuthService(auth client.Authenticator, session SessionStore, health Pinger, meta metadata.Repository) AuthService {
	return &authService{auth: auth, session: session, health: health, meta: meta}
}

func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	tok, err := a.auth.SignIn(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	return a.signedIn(ctx, email, tok)
}

func (a *authService) Register(ctx context.Context, email string, password []byte) error {
	tok, err := a.auth.SignUp(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	if tok.AccessToken == "" {
		return nil
	}
	return a.signedIn(ctx, email, tok)
}

func (a *authService) signedIn(ctx context.Context, email string, tok client.Token) error {
	if tok.AccessToken == "" {
		return fmt.Errorf("login error: %w", client.ErrMalformedResponse)
	}
	if err := a.session.Save(tok.AccessToken); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	if err := a.meta.Set(ctx, KeyAccountEmail, email); err != nil {
		return fmt.Errorf("account saving error: %w", err)
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.session.Clear(); err != nil {
		return err
	}
	return a.meta.Delete(ctx, KeyAccountEmail)
}

func (a *authService) CurrentAccount(ctx context.Context) (string, error) {
	v, _, err := a.meta.Get(ctx, KeyAccountEmail)
	return v, err
}

func (a *authService) Ping(ctx context.Context) error {
	if a.health == nil {
		return client.ErrUnavailable
	}
	return a.health.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	if a.health == nil {
		return nil
	}
	return a.health.Close()
}
