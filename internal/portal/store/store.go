// Package store persists the session credential across runs: the raw bearer
// token and a cached copy of the authenticated user's profile, under two
// independent keys. The session service is the only writer.
//
// Ordering invariant: a user record must never be observable without a
// token. Write stores the token first; Read discards any user record found
// without a token.
package store

import (
	"context"
	"errors"

	"github.com/edumundo/portal/internal/logging"
	"github.com/edumundo/portal/internal/portal/api"
	"github.com/edumundo/portal/internal/portal/config"
)

// Store keys. The token and the cached profile live under independent
// entries so each half can be overwritten on its own.
const (
	keyToken = "auth_token"
	keyUser  = "auth_user"
)

// ErrUnavailable reports that a durable backend could not be opened. Callers
// degrade to the in-memory store rather than failing startup.
var ErrUnavailable = errors.New("credential store unavailable")

// Store is the durable key-value credential store.
type Store interface {
	// Write persists both halves of the credential, token first.
	Write(ctx context.Context, token string, user *api.User) error

	// WriteToken overwrites only the token, leaving the cached user as is.
	WriteToken(ctx context.Context, token string) error

	// WriteUser overwrites only the cached user record.
	WriteUser(ctx context.Context, user *api.User) error

	// Read returns whatever is present. A missing token means no session:
	// any cached user record is stale and ignored. A user record that fails
	// to deserialize is reported as no user, not as an error.
	Read(ctx context.Context) (string, *api.User, error)

	// Token returns the stored token, or the empty string.
	Token(ctx context.Context) (string, error)

	// Clear removes both keys. Idempotent.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Open builds the store named by cfg.Storage. When the durable backend
// cannot be opened the session degrades to memory-only for this run: the
// failure is logged once and an in-memory store is returned instead.
func Open(ctx context.Context, cfg *config.Config, log logging.Logger) Store {
	var (
		s   Store
		err error
	)

	switch cfg.Storage {
	case config.StorageRedis:
		s, err = OpenRedis(ctx, cfg.RedisAddr)
	case config.StorageMemory:
		return NewMemory()
	default:
		s, err = OpenSQLite(ctx, cfg.StorePath)
	}

	if err != nil {
		log.Warn(ctx, "credential store unavailable, session will not survive restarts",
			"backend", cfg.Storage, "error", err)
		return NewMemory()
	}
	return s
}
