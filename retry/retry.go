// Package retry provides a caller-side re-invocation helper. The step
// executor never schedules retries itself; it only makes re-invocation safe.
// Callers that want automatic retry wrap their workflow attempt in Do.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Policy controls backoff behavior.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseWait is the wait before the second attempt; later waits grow
	// exponentially from it.
	BaseWait time.Duration

	// MaxWait caps a single backoff wait. Zero means no cap.
	MaxWait time.Duration
}

// DefaultPolicy retries three times with one second of base backoff.
var DefaultPolicy = Policy{
	MaxAttempts: 3,
	BaseWait:    time.Second,
}

// permanentError marks an error that should not be retried.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so Do stops retrying immediately. The wrapped error is
// returned to the caller unwrapped.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do executes fn until it succeeds, a Permanent error is returned, the
// attempt budget is exhausted, or the context is canceled. Waits between
// attempts use exponential backoff with jitter and respect context
// cancellation.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultPolicy.MaxAttempts
	}
	if policy.BaseWait <= 0 {
		policy.BaseWait = DefaultPolicy.BaseWait
	}

	var lastErr error
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			wait := backoffWait(policy, attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err
	}
	return lastErr
}

// backoffWait computes the wait before the given attempt: exponential growth
// from BaseWait plus up to 10% jitter, capped at MaxWait.
func backoffWait(policy Policy, attempt int) time.Duration {
	wait := time.Duration(float64(policy.BaseWait) * math.Pow(2, float64(attempt-1)))
	if policy.MaxWait > 0 && wait > policy.MaxWait {
		wait = policy.MaxWait
	}
	jitter := time.Duration(rand.Float64() * float64(wait) * 0.1)
	return wait + jitter
}
