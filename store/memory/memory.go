// Package memory provides an in-memory Store implementation. It is the
// deterministic test double used throughout the engine's own tests and is
// suitable for single-process use where durability is not required.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/workway-ai/durable/store"
)

type record struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

var (
	_ store.Store  = &Store{}
	_ store.Lister = &Store{}
)

// Store is a mutex-guarded map with per-key expiry. All operations are
// thread-safe.
type Store struct {
	mu      sync.RWMutex
	records map[string]record
	now     func() time.Time
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		records: make(map[string]record),
		now:     time.Now,
	}
}

// Get returns the value stored under key, or store.ErrNotFound. Expired
// records are treated as absent and removed lazily.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	if !rec.expiresAt.IsZero() && s.now().After(rec.expiresAt) {
		delete(s.records, key)
		return nil, store.ErrNotFound
	}

	// Copy so callers cannot mutate the stored record
	value := make([]byte, len(rec.value))
	copy(value, rec.value)
	return value, nil
}

// Set stores value under key, replacing any prior record.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)

	rec := record{value: stored}
	if ttl > 0 {
		rec.expiresAt = s.now().Add(ttl)
	}
	s.records[key] = rec
	return nil
}

// Delete removes the record under key. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// ListKeys returns all unexpired keys with the given prefix.
func (s *Store) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	now := s.now()
	for key, rec := range s.records {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if !rec.expiresAt.IsZero() && now.After(rec.expiresAt) {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Len returns the number of records currently held, including records whose
// expiry has passed but which have not yet been reclaimed.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
