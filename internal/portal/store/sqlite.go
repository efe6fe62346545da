package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/edumundo/portal/internal/portal/api"
	"github.com/edumundo/portal/internal/portal/store/migrations"
)

// SQLiteStore is the default durable backend: a single-table key/value
// store in a local sqlite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the credential database at dsn and
// applies pending migrations.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore wraps an already-migrated database handle. Used by tests.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *SQLiteStore) set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set credentials[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials[%s]: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) Write(ctx context.Context, token string, user *api.User) error {
	// token first: a crash between the two statements must never leave a
	// user record without a token
	if err := s.set(ctx, keyToken, []byte(token)); err != nil {
		return err
	}
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.set(ctx, keyUser, data)
}

func (s *SQLiteStore) WriteToken(ctx context.Context, token string) error {
	return s.set(ctx, keyToken, []byte(token))
}

func (s *SQLiteStore) WriteUser(ctx context.Context, user *api.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.set(ctx, keyUser, data)
}

func (s *SQLiteStore) Read(ctx context.Context) (string, *api.User, error) {
	tok, err := s.get(ctx, keyToken)
	if err != nil {
		return "", nil, err
	}
	if len(tok) == 0 {
		// no token: a leftover user record is stale and must not hydrate
		return "", nil, nil
	}

	raw, err := s.get(ctx, keyUser)
	if err != nil {
		return "", nil, err
	}
	return string(tok), decodeUser(raw), nil
}

func (s *SQLiteStore) Token(ctx context.Context) (string, error) {
	tok, err := s.get(ctx, keyToken)
	if err != nil {
		return "", err
	}
	return string(tok), nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE key IN (?, ?)`, keyToken, keyUser)
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// decodeUser deserializes a cached user record. A record that fails to
// decode is treated as absent.
func decodeUser(raw []byte) *api.User {
	if len(raw) == 0 {
		return nil
	}
	var u api.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil
	}
	if u.Roles == nil {
		u.Roles = []string{}
	}
	return &u
}
