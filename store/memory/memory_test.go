package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workway-ai/durable/store"
)

func TestStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Get(ctx, "k")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(ctx, "k", []byte("v1"), 0))
	value, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), value)

	// Last write wins.
	require.NoError(t, s.Set(ctx, "k", []byte("v2"), 0))
	value, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Deleting a missing key is not an error.
	require.NoError(t, s.Delete(ctx, "k"))
}

func TestStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := New()

	current := time.Now()
	s.now = func() time.Time { return current }

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	_, err := s.Get(ctx, "k")
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	_, err = s.Get(ctx, "k")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_ValueIsolation(t *testing.T) {
	ctx := context.Background()
	s := New()

	original := []byte("value")
	require.NoError(t, s.Set(ctx, "k", original, 0))
	original[0] = 'X'

	stored, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), stored)

	// Mutating the returned slice does not corrupt the store.
	stored[0] = 'Y'
	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), again)
}

func TestStore_ListKeys(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.Set(ctx, "execution:a", []byte("1"), 0))
	require.NoError(t, s.Set(ctx, "execution:b", []byte("2"), 0))
	require.NoError(t, s.Set(ctx, "other:c", []byte("3"), 0))

	keys, err := s.ListKeys(ctx, "execution:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"execution:a", "execution:b"}, keys)
}
