// Package sqlite provides a Store implementation backed by a SQLite database.
// Records live in a single key-value table with an optional expiry column;
// expired records are filtered on read and reclaimed by Cleanup.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/workway-ai/durable/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	expires_at DATETIME,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_records_expires_at ON records(expires_at) WHERE expires_at IS NOT NULL;
`

var (
	_ store.Store  = &Store{}
	_ store.Lister = &Store{}
)

// Store persists records in a SQLite database file (or ":memory:").
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (creating if needed) the database at dbPath and ensures the
// schema exists. WAL journaling is enabled for concurrent readers.
func New(dbPath string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_sync=NORMAL&_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Get returns the value stored under key, or store.ErrNotFound. Expired
// records are treated as absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	var expiresAt sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM records WHERE key = ?`, key,
	).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if expiresAt.Valid && s.now().After(expiresAt.Time) {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key)
		return nil, store.ErrNotFound
	}
	return value, nil
}

// Set stores value under key, replacing any existing record.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt any
	if ttl > 0 {
		expiresAt = s.now().Add(ttl).UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (key, value, expires_at, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = CURRENT_TIMESTAMP`,
		key, value, expiresAt)
	return err
}

// Delete removes the record under key. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key)
	return err
}

// ListKeys returns all unexpired keys with the given prefix.
func (s *Store) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key FROM records
		WHERE key LIKE ? ESCAPE '\'
		  AND (expires_at IS NULL OR expires_at > ?)
		ORDER BY key`,
		escapeLike(prefix)+"%", s.now().UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Cleanup removes all records whose expiry has passed and returns the number
// reclaimed.
func (s *Store) Cleanup(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE expires_at IS NOT NULL AND expires_at <= ?`,
		s.now().UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func escapeLike(s2 string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s2)
}
