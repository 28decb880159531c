// Package redis provides a Store implementation backed by a Redis server.
// Expiry is delegated to Redis natively via key TTLs.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/workway-ai/durable/store"
)

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

var (
	_ store.Store  = &Store{}
	_ store.Lister = &Store{}
)

// Store wraps a go-redis client with the engine's Store contract.
type Store struct {
	client *redis.Client
}

// New creates a Redis-backed store. The connection is established lazily by
// the client; use Ping to verify reachability eagerly.
func New(opts Options) *Store {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &Store{client: client}
}

// NewWithClient wraps an existing client. The caller retains ownership of the
// client's lifecycle.
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Ping verifies the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Get returns the value stored under key, or store.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Set stores value under key. A positive ttl becomes a native Redis expiry;
// zero means the key does not expire.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes the record under key. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// ListKeys returns all keys with the given prefix. SCAN is used rather than
// KEYS so large keyspaces do not block the server.
func (s *Store) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// Close releases the underlying client connection.
func (s *Store) Close() error {
	return s.client.Close()
}
