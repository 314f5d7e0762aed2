// Package services contains the application services of the nutrigate client.
// They sit between the screens and the transport: identity (session and
// password reset), profile (onboarding record) and media (image upload).
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/nutrigate/internal/client/client"
	"github.com/dmitrijs2005/nutrigate/internal/client/models"
	"github.com/dmitrijs2005/nutrigate/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/nutrigate/internal/client/repositories/tokens"
	"github.com/dmitrijs2005/nutrigate/internal/logging"
)

// IdentityService defines session operations for the CLI.
//
// CurrentSession returns (nil, nil) when nobody is signed in. Errors coming
// from the server keep their message so screens can show them verbatim.
type IdentityService interface {
	Restore(ctx context.Context) error
	SignUp(ctx context.Context, email, password, displayName string) (*models.Session, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context) error
	CurrentSession(ctx context.Context) (*models.Session, error)
	SendPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, code, newPassword string) error
	LastEmail(ctx context.Context) string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type identityService struct {
	client client.Client
	tokens tokens.Repository
	prefs  preferences.Repository
	logger logging.Logger
}

func NewIdentityService(c client.Client, t tokens.Repository, p preferences.Repository, l logging.Logger) IdentityService {
	return &identityService{client: c, tokens: t, prefs: p, logger: l.With("module", "identity")}
}

// PersistTokens returns a hook for client.WithTokensHook that writes every
// new pair to the local store. Failures are logged; the in-memory session
// keeps working.
func PersistTokens(repo tokens.Repository, l logging.Logger) func(models.TokenPair) {
	return func(pair models.TokenPair) {
		ctx := context.Background()
		if err := repo.Save(ctx, pair); err != nil {
			l.Error(ctx, "failed to persist session tokens", "error", err)
		}
	}
}

// Restore loads the token pair saved by a previous run into the client.
func (s *identityService) Restore(ctx context.Context) error {
	pair, err := s.tokens.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if !pair.Empty() {
		s.client.SetTokens(pair)
		s.logger.Debug(ctx, "session tokens restored")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *identityService) SignUp(ctx context.Context, email, password, displayName string) (*models.Session, error) {
	email = normalizeEmail(email)
	session, err := s.client.SignUp(ctx, email, password, strings.TrimSpace(displayName))
	if err != nil {
		return nil, err
	}
	s.rememberEmail(ctx, email)
	return session, nil
}

func (s *identityService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	email = normalizeEmail(email)
	session, err := s.client.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.rememberEmail(ctx, email)
	return session, nil
}

func (s *identityService) rememberEmail(ctx context.Context, email string) {
	if err := s.prefs.Set(ctx, preferences.KeyLastEmail, email); err != nil {
		s.logger.Warn(ctx, "failed to remember e-mail", "error", err)
	}
}

func (s *identityService) SignOut(ctx context.Context) error {
	if err := s.client.SignOut(ctx); err != nil {
		return err
	}
	// the token hook already cleared the store; this covers a client built
	// without one
	if err := s.tokens.Clear(ctx); err != nil {
		s.logger.Warn(ctx, "failed to clear stored tokens", "error", err)
	}
	return nil
}

func (s *identityService) CurrentSession(ctx context.Context) (*models.Session, error) {
	return s.client.WhoAmI(ctx)
}

func (s *identityService) SendPasswordReset(ctx context.Context, email string) error {
	return s.client.SendPasswordReset(ctx, normalizeEmail(email))
}

func (s *identityService) ResetPassword(ctx context.Context, code, newPassword string) error {
	return s.client.ResetPassword(ctx, strings.TrimSpace(code), newPassword)
}

// LastEmail is the address of the last successful sign-in or sign-up, or "".
func (s *identityService) LastEmail(ctx context.Context) string {
	email, err := s.prefs.Get(ctx, preferences.KeyLastEmail)
	if err != nil {
		s.logger.Warn(ctx, "failed to read last e-mail", "error", err)
		return ""
	}
	return email
}

func (s *identityService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *identityService) Close(ctx context.Context) error {
	return s.client.Close()
}
