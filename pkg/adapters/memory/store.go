// Package memory provides in-memory implementations of every port. They are
// the default adapters for tests and for ephemeral, single-process hosts.
package memory

import (
	"context"
	"sync"
)

// Store implements ports.DataStore with a flat map.
// Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewStore creates an empty in-memory data store.
func NewStore() *Store {
	return &Store{data: make(map[string]any)}
}

// NewStoreFrom creates a store pre-seeded with the given values.
func NewStoreFrom(seed map[string]any) *Store {
	s := NewStore()
	for k, v := range seed {
		s.data[k] = v
	}
	return s
}

// Get returns the value at key; ok is false when the key is absent.
func (s *Store) Get(ctx context.Context, key string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Set writes a scalar at key, overwriting any previous value.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Snapshot returns a copy of the current contents, for assertions.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}
