package kv

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is a process-local [Store] backed by a map. It is intended for
// tests and for embedding kvsession without an external backend.
//
// MemoryStore is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]byte),
	}
}

var _ Store = (*MemoryStore)(nil)

// Put stores data under key, overwriting any previous payload.
func (s *MemoryStore) Put(_ context.Context, key string, data []byte) (string, error) {
	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	s.entries[key] = buf
	s.mu.Unlock()

	return key, nil
}

// Get returns the payload stored under key, or [ErrNotFound].
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// Delete removes the payload stored under key. Deleting a missing key is a
// no-op.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Keys returns a sorted snapshot of every stored key.
func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	return keys, nil
}

// Len reports the number of stored payloads.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
