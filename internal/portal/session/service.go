// Package session tracks whether, and as whom, the portal is authenticated.
//
// Service performs the credential operations against the remote service and
// is the only writer of the credential store. Manager owns the process-wide
// session state machine and mutates it exclusively through Service calls.
package session

import (
	"context"
	"time"

	"github.com/edumundo/portal/internal/logging"
	"github.com/edumundo/portal/internal/portal/api"
	"github.com/edumundo/portal/internal/portal/store"
	"github.com/edumundo/portal/internal/portal/token"
)

// Service wraps the remote client and the credential store. All network I/O
// related to authentication goes through here, and nothing else writes the
// store.
type Service struct {
	client api.Client
	store  store.Store
	log    logging.Logger

	// now is a test seam for expiration checks.
	now func() time.Time
}

func NewService(client api.Client, st store.Store, log logging.Logger) *Service {
	return &Service{client: client, store: st, log: log, now: time.Now}
}

// Login exchanges credentials for a session. Both server response shapes are
// already normalized by the client; on success the credential is persisted
// before returning.
func (s *Service) Login(ctx context.Context, email, password string) (*api.Credentials, error) {
	creds, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.store.Write(ctx, creds.Token, creds.User); err != nil {
		return nil, err
	}
	return creds, nil
}

// Register creates an account. Same persistence contract as Login.
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName string) (*api.Credentials, error) {
	creds, err := s.client.Register(ctx, email, password, firstName, lastName)
	if err != nil {
		return nil, err
	}
	if err := s.store.Write(ctx, creds.Token, creds.User); err != nil {
		return nil, err
	}
	return creds, nil
}

// CurrentUser fetches the authenticated profile with the stored token and,
// on success, refreshes only the cached user record. On failure the store is
// left untouched; deciding to log out is the caller's business.
func (s *Service) CurrentUser(ctx context.Context) (*api.User, error) {
	tok, err := s.store.Token(ctx)
	if err != nil {
		return nil, err
	}
	if tok == "" {
		return nil, api.NewAuthError("", nil)
	}
	user, err := s.client.CurrentUser(ctx, tok)
	if err != nil {
		return nil, err
	}
	if err := s.store.WriteUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateLanguage persists the preference server-side and patches the cached
// user record without a full re-fetch.
func (s *Service) UpdateLanguage(ctx context.Context, language string) (string, error) {
	tok, err := s.store.Token(ctx)
	if err != nil {
		return "", err
	}
	lang, err := s.client.UpdateLanguage(ctx, tok, language)
	if err != nil {
		return "", err
	}

	_, user, err := s.store.Read(ctx)
	if err != nil {
		return "", err
	}
	if user != nil {
		user.PreferredLanguage = lang
		if err := s.store.WriteUser(ctx, user); err != nil {
			return "", err
		}
	}
	return lang, nil
}

// RefreshToken exchanges the stored token for a new one, overwriting only
// the token.
func (s *Service) RefreshToken(ctx context.Context) error {
	tok, err := s.store.Token(ctx)
	if err != nil {
		return err
	}
	fresh, err := s.client.RefreshToken(ctx, tok)
	if err != nil {
		return err
	}
	return s.store.WriteToken(ctx, fresh)
}

// Logout clears the credential store. It never fails and needs no network:
// a clear error is logged and swallowed, the worst outcome being a stale
// record that the next Read will still refuse to hydrate without a token.
func (s *Service) Logout(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.log.Warn(ctx, "failed to clear credential store on logout", "error", err)
	}
}

func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	return s.client.ForgotPassword(ctx, email)
}

func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	return s.client.ResetPassword(ctx, resetToken, newPassword)
}

// ChangePassword changes the password of the authenticated account.
func (s *Service) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	tok, err := s.store.Token(ctx)
	if err != nil {
		return err
	}
	return s.client.ChangePassword(ctx, tok, currentPassword, newPassword)
}

func (s *Service) VerifyEmail(ctx context.Context, verifyToken string) error {
	return s.client.VerifyEmail(ctx, verifyToken)
}

func (s *Service) ResendVerification(ctx context.Context) error {
	tok, err := s.store.Token(ctx)
	if err != nil {
		return err
	}
	return s.client.ResendVerification(ctx, tok)
}

// IsAuthenticated reports whether a token is present in the store. Presence
// does not imply validity.
func (s *Service) IsAuthenticated(ctx context.Context) bool {
	tok, err := s.store.Token(ctx)
	return err == nil && tok != ""
}

// IsTokenExpired reports whether the stored token should no longer be
// presented: absent, malformed, or past its exp claim.
func (s *Service) IsTokenExpired(ctx context.Context) bool {
	tok, err := s.store.Token(ctx)
	if err != nil {
		return true
	}
	return token.Expired(tok, s.now())
}

// TokenExpirationTime returns the stored token's absolute expiration
// instant. ok is false when the token is absent, malformed, or
// non-expiring.
func (s *Service) TokenExpirationTime(ctx context.Context) (time.Time, bool) {
	tok, err := s.store.Token(ctx)
	if err != nil {
		return time.Time{}, false
	}
	return token.ExpirationTime(tok)
}

// Store exposes the read side of the credential store for startup
// hydration.
func (s *Service) Store() store.Store {
	return s.store
}
