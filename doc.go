// Package durable provides a checkpointing step executor that lets a
// multi-step, side-effecting workflow survive process restarts and partial
// failures without re-running completed steps.
//
// The core types are:
//
//   - [StepExecutor] runs named steps exactly once per successful completion,
//     persisting each terminal outcome to a key-value store.
//   - [ExecutionState] and [StepRecord] form the durable record of one run.
//   - [store.Store] (in the store subpackage) is the storage contract, with
//     memory, file, redis, and sqlite backends provided.
//
// # Quick Start
//
//	exec, _ := durable.NewStepExecutor(durable.StepExecutorOptions{
//	    Store:       memory.New(),
//	    ExecutionID: durable.GenerateExecutionID("onboarding", "evt-42"),
//	})
//	ticket, _ := exec.Step(ctx, "create-ticket", func(ctx context.Context) (any, error) {
//	    return createTicket(ctx)
//	})
//	_, _ = exec.Step(ctx, "notify", func(ctx context.Context) (any, error) {
//	    return nil, notify(ctx, ticket)
//	})
//	_ = exec.Complete(ctx, true)
//
// If the process crashes partway through, re-running the same code with the
// same execution id skips the steps that already completed and resumes at
// the first unfinished one.
//
// The engine provides no distributed locking: attempts for one execution id
// must be serialized by the caller. Step results must round-trip through
// JSON; note that JSON normalizes numbers loaded from storage to float64.
package durable
