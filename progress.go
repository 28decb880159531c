package durable

import (
	"context"
	"sort"
	"time"
)

// Progress is a derived, read-only view of an execution's step outcomes.
// Only steps that reached a terminal outcome are enumerable; the engine has
// no a-priori knowledge of a workflow's full step list.
type Progress struct {
	ExecutionID    string    `json:"execution_id"`
	StartedAt      time.Time `json:"started_at"`
	CompletedSteps []string  `json:"completed_steps"`
	FailedSteps    []string  `json:"failed_steps"`
	IsComplete     bool      `json:"is_complete"`
}

// Progress partitions the execution's step names by status. CompletedSteps
// and FailedSteps are disjoint, sorted, and together cover exactly the steps
// with a recorded terminal outcome.
func (e *StepExecutor) Progress(ctx context.Context) (*Progress, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	state, err := e.loadStateLocked(ctx)
	if err != nil {
		return nil, err
	}

	progress := &Progress{
		ExecutionID:    state.ExecutionID,
		StartedAt:      state.StartedAt,
		CompletedSteps: []string{},
		FailedSteps:    []string{},
		IsComplete:     state.Completed,
	}
	for name, rec := range state.Steps {
		switch rec.Status {
		case StepStatusCompleted:
			progress.CompletedSteps = append(progress.CompletedSteps, name)
		case StepStatusFailed:
			progress.FailedSteps = append(progress.FailedSteps, name)
		}
	}
	sort.Strings(progress.CompletedSteps)
	sort.Strings(progress.FailedSteps)
	return progress, nil
}
