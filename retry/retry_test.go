package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) Policy {
	return Policy{MaxAttempts: attempts, BaseWait: time.Millisecond}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastPolicy(3), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	boom := errors.New("boom")
	attempts := 0
	err := Do(context.Background(), fastPolicy(3), func(ctx context.Context) error {
		attempts++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, attempts)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	fatal := errors.New("fatal")
	attempts := 0
	err := Do(context.Background(), fastPolicy(5), func(ctx context.Context) error {
		attempts++
		return Permanent(fatal)
	})
	// The wrapped error comes back unwrapped.
	require.Equal(t, fatal, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := Do(ctx, Policy{MaxAttempts: 5, BaseWait: time.Minute}, func(ctx context.Context) error {
		attempts++
		cancel()
		return errors.New("transient")
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestPermanent_NilPassthrough(t *testing.T) {
	assert.Nil(t, Permanent(nil))
}

func TestDo_ZeroPolicyUsesDefaults(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), Policy{BaseWait: time.Millisecond}, func(ctx context.Context) error {
		attempts++
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, DefaultPolicy.MaxAttempts, attempts)
}
