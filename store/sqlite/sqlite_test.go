package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workway-ai/durable/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "checkpoints.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Get(ctx, "execution:e1")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(ctx, "execution:e1", []byte("v1"), 0))
	value, err := s.Get(ctx, "execution:e1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), value)

	require.NoError(t, s.Set(ctx, "execution:e1", []byte("v2"), 0))
	value, err = s.Get(ctx, "execution:e1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)

	require.NoError(t, s.Delete(ctx, "execution:e1"))
	_, err = s.Get(ctx, "execution:e1")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Delete(ctx, "execution:e1"))
}

func TestStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	current := time.Now()
	s.now = func() time.Time { return current }

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	_, err := s.Get(ctx, "k")
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	_, err = s.Get(ctx, "k")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_Cleanup(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	current := time.Now()
	s.now = func() time.Time { return current }

	require.NoError(t, s.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, s.Set(ctx, "b", []byte("2"), time.Hour))
	require.NoError(t, s.Set(ctx, "c", []byte("3"), 0))

	current = current.Add(30 * time.Minute)
	reclaimed, err := s.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reclaimed)

	_, err = s.Get(ctx, "b")
	require.NoError(t, err)
	_, err = s.Get(ctx, "c")
	require.NoError(t, err)
}

func TestStore_ListKeys(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Set(ctx, "execution:a", []byte("1"), 0))
	require.NoError(t, s.Set(ctx, "execution:b", []byte("2"), 0))
	require.NoError(t, s.Set(ctx, "other:c", []byte("3"), 0))

	keys, err := s.ListKeys(ctx, "execution:")
	require.NoError(t, err)
	assert.Equal(t, []string{"execution:a", "execution:b"}, keys)
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "checkpoints.db")

	s1, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, s1.Close())

	s2, err := New(dbPath)
	require.NoError(t, err)
	defer s2.Close()
	value, err := s2.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
}
