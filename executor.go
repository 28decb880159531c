package durable

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/workway-ai/durable/slogger"
	"github.com/workway-ai/durable/store"
)

// DefaultTTL is the default expiry hint passed to the store on every
// persist: seven days.
const DefaultTTL = 7 * 24 * time.Hour

// StepFunc is a caller-supplied unit of work. Its result must be
// JSON-serializable so it can round-trip through the store. The function may
// be re-invoked across resumption attempts if a prior attempt crashed before
// its completion was persisted, so it should be idempotent or
// side-effect-checked.
type StepFunc func(ctx context.Context) (any, error)

// Hooks are optional observers invoked during step dispatch. All hooks run
// synchronously on the calling goroutine.
type Hooks struct {
	// OnSkip fires when a step is skipped because it already completed,
	// receiving the cached result.
	OnSkip func(stepName string, cachedResult any)

	// OnExecute fires immediately before a step's function runs.
	OnExecute func(stepName string)

	// OnFail fires after a step failure has been persisted.
	OnFail func(stepName string, err error)
}

// StepExecutorOptions configures a new StepExecutor.
type StepExecutorOptions struct {
	// Store is the key-value store holding execution state (required).
	Store store.Store

	// ExecutionID identifies the logical workflow run (required). It must be
	// stable across retries of the same unit of work; see GenerateExecutionID.
	ExecutionID string

	// TTL is the expiry hint passed to the store. Zero selects DefaultTTL;
	// a negative value disables expiry.
	TTL time.Duration

	// ContinueOnFailure, when true, swallows step failures: Step returns a
	// nil result and nil error, and the failure is reported via OnFail and
	// the durable record only. The default (false) returns the failure.
	ContinueOnFailure bool

	// Logger receives structured engine logs. Defaults to a no-op logger.
	Logger slogger.Logger

	Hooks Hooks
}

// StepExecutor runs named steps of one workflow execution exactly once per
// successful completion, checkpointing each terminal outcome to the store so
// a re-run of the same execution id skips completed steps and retries failed
// ones.
//
// One instance is the sole mutator of its execution state within a process;
// a mutex serializes its operations. There is no cross-process coordination:
// if two processes operate on the same execution id concurrently, the last
// write to the store wins. Callers must serialize attempts per execution id.
type StepExecutor struct {
	store             store.Store
	executionID       string
	key               string
	ttl               time.Duration
	continueOnFailure bool
	logger            slogger.Logger
	hooks             Hooks

	mutex sync.Mutex
	state *ExecutionState
}

// NewStepExecutor creates an executor bound to an execution id. The state
// record is not touched until the first operation.
func NewStepExecutor(opts StepExecutorOptions) (*StepExecutor, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if opts.ExecutionID == "" {
		return nil, fmt.Errorf("execution id is required")
	}
	if opts.Logger == nil {
		opts.Logger = slogger.DefaultLogger
	}

	ttl := opts.TTL
	switch {
	case ttl == 0:
		ttl = DefaultTTL
	case ttl < 0:
		ttl = 0
	}

	return &StepExecutor{
		store:             opts.Store,
		executionID:       opts.ExecutionID,
		key:               ExecutionKey(opts.ExecutionID),
		ttl:               ttl,
		continueOnFailure: opts.ContinueOnFailure,
		logger:            opts.Logger.With("execution_id", opts.ExecutionID),
		hooks:             opts.Hooks,
	}, nil
}

// ExecutionID returns the execution id this executor is bound to.
func (e *StepExecutor) ExecutionID() string {
	return e.executionID
}

// Step runs the named step at most once per successful completion. If the
// step already completed in this or a prior process, the cached result is
// returned and fn is never invoked. Otherwise fn runs; on success the result
// is persisted before Step returns (the atomic-commit point), and on failure
// a failed record is persisted and the error is returned (or swallowed when
// ContinueOnFailure is set), leaving the step retryable.
//
// A panic inside fn is persisted as a failure and then re-raised with the
// original panic value.
func (e *StepExecutor) Step(ctx context.Context, name string, fn StepFunc) (any, error) {
	if name == "" {
		return nil, fmt.Errorf("step name is required")
	}
	if fn == nil {
		return nil, fmt.Errorf("step function is required")
	}

	e.mutex.Lock()
	defer e.mutex.Unlock()

	state, err := e.loadStateLocked(ctx)
	if err != nil {
		return nil, err
	}

	if rec, ok := state.Steps[name]; ok && rec.Status == StepStatusCompleted {
		e.logger.Debug("skipping completed step", "step", name)
		if e.hooks.OnSkip != nil {
			e.hooks.OnSkip(name, rec.Result)
		}
		return rec.Result, nil
	}

	if e.hooks.OnExecute != nil {
		e.hooks.OnExecute(name)
	}
	e.logger.Debug("executing step", "step", name)

	result, panicValue, stepErr := runStep(ctx, fn)
	if stepErr != nil || panicValue != nil {
		failure := stepErr
		if panicValue != nil {
			failure = &PanicError{Value: panicValue}
		}

		now := time.Now().UTC()
		state.Steps[name] = &StepRecord{
			Name:     name,
			Status:   StepStatusFailed,
			Error:    failure.Error(),
			FailedAt: &now,
		}
		if perr := e.persistLocked(ctx, state); perr != nil {
			return nil, perr
		}

		e.logger.Warn("step failed", "step", name, "error", failure)
		if e.hooks.OnFail != nil {
			e.hooks.OnFail(name, failure)
		}

		if e.continueOnFailure {
			return nil, nil
		}
		if panicValue != nil {
			panic(panicValue)
		}
		return nil, stepErr
	}

	now := time.Now().UTC()
	state.Steps[name] = &StepRecord{
		Name:        name,
		Status:      StepStatusCompleted,
		Result:      result,
		CompletedAt: &now,
	}
	if err := e.persistLocked(ctx, state); err != nil {
		return nil, err
	}

	e.logger.Debug("step completed", "step", name)
	return result, nil
}

// StepIf runs the named step only when cond is true. When cond is false it
// returns immediately without touching storage: no StepRecord is created and
// the step is indistinguishable from one never reached.
func (e *StepExecutor) StepIf(ctx context.Context, cond bool, name string, fn StepFunc) (any, error) {
	if !cond {
		return nil, nil
	}
	return e.Step(ctx, name, fn)
}

// GetStepResult returns the cached result for a completed step. The second
// return value is false for missing, pending, or failed steps; failed steps
// do not expose a usable result.
func (e *StepExecutor) GetStepResult(ctx context.Context, name string) (any, bool, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	state, err := e.loadStateLocked(ctx)
	if err != nil {
		return nil, false, err
	}
	rec, ok := state.Steps[name]
	if !ok || rec.Status != StepStatusCompleted {
		return nil, false, nil
	}
	return rec.Result, true, nil
}

// IsStepCompleted reports whether the named step has completed successfully.
func (e *StepExecutor) IsStepCompleted(ctx context.Context, name string) (bool, error) {
	_, ok, err := e.GetStepResult(ctx, name)
	return ok, err
}

// Complete marks the execution as finished. With cleanup true the state
// record is deleted from the store immediately; this is irreversible, and a
// later Step call against the same execution id starts a brand-new, empty
// execution. With cleanup false the completed state is persisted and
// retained until the store's expiry reclaims it.
func (e *StepExecutor) Complete(ctx context.Context, cleanup bool) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	state, err := e.loadStateLocked(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	state.Completed = true
	state.CompletedAt = &now

	if cleanup {
		if err := e.store.Delete(ctx, e.key); err != nil {
			return fmt.Errorf("failed to delete execution state: %w", err)
		}
		e.state = nil
		e.logger.Info("execution completed and cleaned up")
		return nil
	}

	if err := e.persistLocked(ctx, state); err != nil {
		return err
	}
	e.logger.Info("execution completed")
	return nil
}

// Reset unconditionally deletes the execution state and clears this
// instance's cache, regardless of completion status. Used to force a restart
// of a logical execution.
func (e *StepExecutor) Reset(ctx context.Context) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if err := e.store.Delete(ctx, e.key); err != nil {
		return fmt.Errorf("failed to delete execution state: %w", err)
	}
	e.state = nil
	e.logger.Info("execution reset")
	return nil
}

// loadStateLocked returns the cached state, loading it from the store on
// first use. An absent record is initialized and persisted immediately.
// Callers must hold the mutex.
func (e *StepExecutor) loadStateLocked(ctx context.Context) (*ExecutionState, error) {
	if e.state != nil {
		return e.state, nil
	}

	data, err := e.store.Get(ctx, e.key)
	if errors.Is(err, store.ErrNotFound) {
		state := NewExecutionState(e.executionID)
		if err := e.persistLocked(ctx, state); err != nil {
			return nil, err
		}
		e.logger.Debug("initialized execution state")
		return state, nil
	}
	if err != nil {
		return nil, err
	}

	state, err := UnmarshalState(data)
	if err != nil {
		return nil, err
	}
	e.state = state
	return state, nil
}

// persistLocked writes the full execution state to the store with the
// configured expiry hint. Callers must hold the mutex.
func (e *StepExecutor) persistLocked(ctx context.Context, state *ExecutionState) error {
	data, err := MarshalState(state)
	if err != nil {
		return err
	}
	if err := e.store.Set(ctx, e.key, data, e.ttl); err != nil {
		return fmt.Errorf("failed to persist execution state: %w", err)
	}
	e.state = state
	return nil
}

// runStep invokes fn, converting a panic into a captured value so the
// failure can be checkpointed before the panic is re-raised.
func runStep(ctx context.Context, fn StepFunc) (result any, panicValue any, err error) {
	defer func() {
		if v := recover(); v != nil {
			result, err = nil, nil
			panicValue = v
		}
	}()
	result, err = fn(ctx)
	return
}

// PanicError wraps a panic value recovered from a step function. The
// original value is preserved unmodified in Value; Error renders its string
// form for the durable record.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%v", e.Value)
}
