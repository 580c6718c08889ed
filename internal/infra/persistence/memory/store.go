// Package memory provides an in-process KeyValueStore, used in tests and single-instance development.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"emart/internal/domain/repository"
)

type store struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewStore creates an empty in-memory store.
func NewStore() repository.KeyValueStore {
	return &store{docs: make(map[string][]byte)}
}

func (s *store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.docs[key]
	if !ok {
		return nil, repository.ErrKeyNotFound
	}

	return slices.Clone(value), nil
}

func (s *store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[key] = slices.Clone(value)

	return nil
}

func (s *store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, key)

	return nil
}

func (s *store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.docs))
	for key := range s.docs {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	return keys, nil
}
