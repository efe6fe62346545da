package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/edumundo/portal/internal/portal/api"
)

// keyPrefix namespaces the portal's credential keys on a shared server.
const keyPrefix = "portal:cred:"

// RedisStore keeps the credential on a Redis server. Intended for shared
// kiosk deployments where several terminals present one session.
type RedisStore struct {
	rdb *redis.Client
}

// OpenRedis connects to the Redis server at addr and verifies it is
// reachable before returning.
func OpenRedis(ctx context.Context, addr string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return &RedisStore{rdb: rdb}, nil
}

// NewRedisStore wraps an existing client. Used by tests.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Write(ctx context.Context, token string, user *api.User) error {
	// token first, same ordering contract as the sqlite backend
	if err := s.rdb.Set(ctx, keyPrefix+keyToken, token, 0).Err(); err != nil {
		return fmt.Errorf("failed to set token: %w", err)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, keyPrefix+keyUser, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set user: %w", err)
	}
	return nil
}

func (s *RedisStore) WriteToken(ctx context.Context, token string) error {
	return s.rdb.Set(ctx, keyPrefix+keyToken, token, 0).Err()
}

func (s *RedisStore) WriteUser(ctx context.Context, user *api.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+keyUser, data, 0).Err()
}

func (s *RedisStore) Read(ctx context.Context) (string, *api.User, error) {
	tok, err := s.rdb.Get(ctx, keyPrefix+keyToken).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to get token: %w", err)
	}
	if tok == "" {
		return "", nil, nil
	}

	raw, err := s.rdb.Get(ctx, keyPrefix+keyUser).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}
	return tok, decodeUser(raw), nil
}

func (s *RedisStore) Token(ctx context.Context) (string, error) {
	tok, err := s.rdb.Get(ctx, keyPrefix+keyToken).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return tok, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, keyPrefix+keyToken, keyPrefix+keyUser).Err(); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
