package file

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workway-ai/durable/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewWithFs(afero.NewMemMapFs(), "/checkpoints")
	require.NoError(t, err)
	return s
}

func TestStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Get(ctx, "execution:e1")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(ctx, "execution:e1", []byte(`{"a":1}`), 0))
	value, err := s.Get(ctx, "execution:e1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(value))

	require.NoError(t, s.Set(ctx, "execution:e1", []byte(`{"a":2}`), 0))
	value, err = s.Get(ctx, "execution:e1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(value))

	require.NoError(t, s.Delete(ctx, "execution:e1"))
	_, err = s.Get(ctx, "execution:e1")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Delete(ctx, "execution:e1"))
}

func TestStore_KeysWithUnsafeCharacters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// Execution keys contain colons, which must be encoded on disk.
	key := "execution:wf1:evt1:2025-01-15"
	require.NoError(t, s.Set(ctx, key, []byte(`"v"`), 0))
	value, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `"v"`, string(value))

	keys, err := s.ListKeys(ctx, "execution:")
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys)
}

func TestStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	current := time.Now()
	s.now = func() time.Time { return current }

	require.NoError(t, s.Set(ctx, "k", []byte(`"v"`), time.Minute))
	_, err := s.Get(ctx, "k")
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	_, err = s.Get(ctx, "k")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Expired records are excluded from listings too.
	keys, err := s.ListKeys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()

	s1, err := NewWithFs(fs, "/checkpoints")
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "k", []byte(`"v"`), 0))

	s2, err := NewWithFs(fs, "/checkpoints")
	require.NoError(t, err)
	value, err := s2.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"v"`, string(value))
}
