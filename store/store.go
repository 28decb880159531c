// Package store defines the key-value storage contract consumed by the
// durable step execution engine, along with a sentinel for absent records.
//
// The engine treats stored values as opaque byte slices; serialization is
// owned by the caller. Implementations are expected to provide last-write-wins
// semantics only. No transactional or locking guarantees are assumed.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no record exists for the given key.
var ErrNotFound = errors.New("record not found")

// Store is the minimal capability set the engine requires: get, set with an
// optional expiry hint, and delete. A ttl of zero means the record does not
// expire.
type Store interface {
	// Get returns the record stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any existing record. Implementations
	// that support expiry should reclaim the record after ttl elapses.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the record under key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error
}

// Lister is an optional capability for stores that can enumerate keys.
// Introspection tooling uses it to list executions; the engine itself never
// requires it.
type Lister interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}
