package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/edumundo/portal/internal/portal/api"
)

// MemoryStore holds the credential for the life of the process only. It is
// the degradation target when no durable backend can be opened, so the
// session machinery keeps working and only persistence is lost.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Write(ctx context.Context, token string, user *api.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[keyToken] = []byte(token)
	s.data[keyUser] = data
	return nil
}

func (s *MemoryStore) WriteToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[keyToken] = []byte(token)
	return nil
}

func (s *MemoryStore) WriteUser(ctx context.Context, user *api.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[keyUser] = data
	return nil
}

func (s *MemoryStore) Read(ctx context.Context) (string, *api.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tok := s.data[keyToken]
	if len(tok) == 0 {
		return "", nil, nil
	}
	return string(tok), decodeUser(s.data[keyUser]), nil
}

func (s *MemoryStore) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return string(s.data[keyToken]), nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, keyToken)
	delete(s.data, keyUser)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
