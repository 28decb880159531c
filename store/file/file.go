// Package file provides a Store implementation that persists each record as
// an individual JSON file on disk.
//
// This implementation is suitable for CLI applications and single-user
// deployments where executions need to survive process restarts without a
// database. Writes are atomic (temp file + rename) so a crash mid-write
// never leaves a truncated record behind.
//
// Values must be valid JSON: records are kept human-readable by embedding
// them verbatim in the on-disk envelope. The engine's execution records
// always are.
package file

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/workway-ai/durable/store"
)

// envelope wraps the stored value with its expiry stamp. Expiry is enforced
// lazily on read since the filesystem has no native TTL.
type envelope struct {
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	Value     json.RawMessage `json:"value"`
}

var (
	_ store.Store  = &Store{}
	_ store.Lister = &Store{}
)

// Store persists records as {encoded-key}.json files under a base directory.
// All operations are thread-safe using a read-write mutex.
type Store struct {
	mu      sync.RWMutex
	fs      afero.Fs
	baseDir string
	now     func() time.Time
}

// New creates a file store rooted at baseDir on the OS filesystem. The
// directory is created if it does not exist.
func New(baseDir string) (*Store, error) {
	return NewWithFs(afero.NewOsFs(), baseDir)
}

// NewWithFs creates a file store over an arbitrary afero filesystem. Tests
// use afero.NewMemMapFs to avoid touching disk.
func NewWithFs(fs afero.Fs, baseDir string) (*Store, error) {
	if err := fs.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	return &Store{
		fs:      fs,
		baseDir: baseDir,
		now:     time.Now,
	}, nil
}

// recordPath maps a key to its file path. Keys contain characters like ':'
// that are unsafe in some filesystems, so they are percent-encoded.
func (s *Store) recordPath(key string) string {
	return filepath.Join(s.baseDir, url.QueryEscape(key)+".json")
}

// Get returns the value stored under key, or store.ErrNotFound. Records whose
// expiry has passed are removed and reported as absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.recordPath(key)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if isNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	if env.ExpiresAt != nil && s.now().After(*env.ExpiresAt) {
		_ = s.fs.Remove(path)
		return nil, store.ErrNotFound
	}
	return env.Value, nil
}

// Set stores value under key, replacing any existing record. The write is
// atomic: data is written to a temp file in the same directory and renamed
// into place.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	env := envelope{Value: value}
	if ttl > 0 {
		expires := s.now().Add(ttl)
		env.ExpiresAt = &expires
	}

	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return s.writeAtomic(s.recordPath(key), data)
}

// Delete removes the record under key. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.fs.Remove(s.recordPath(key))
	if err != nil && !isNotExist(err) {
		return err
	}
	return nil
}

// ListKeys returns all unexpired keys with the given prefix.
func (s *Store) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := afero.ReadDir(s.fs, s.baseDir)
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var keys []string
	now := s.now()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		key, err := url.QueryUnescape(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil || !strings.HasPrefix(key, prefix) {
			continue
		}

		data, err := afero.ReadFile(s.fs, filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue // Skip files we can't read
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue // Skip malformed files
		}
		if env.ExpiresAt != nil && now.After(*env.ExpiresAt) {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// writeAtomic writes data via a temp file and rename so readers never observe
// a partially written record.
func (s *Store) writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(s.fs, dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer s.fs.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return s.fs.Rename(tmpPath, path)
}

func isNotExist(err error) bool {
	return os.IsNotExist(err)
}
