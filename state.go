package durable

import (
	"encoding/json"
	"fmt"
	"time"
)

// StepStatus is the terminal status of a step within an execution. A step
// with no record is implicitly pending.
type StepStatus string

const (
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
)

// StepRecord is the durable record of one step's terminal outcome.
//
// Result holds only when Status is completed and must round-trip through
// JSON: primitives, maps, and slices are supported; live resources and
// cyclic values are not. A nil Result is valid and preserved, so the field
// deliberately does not use omitempty.
type StepRecord struct {
	Name        string     `json:"name"`
	Status      StepStatus `json:"status"`
	Result      any        `json:"result"`
	Error       string     `json:"error,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	FailedAt    *time.Time `json:"failed_at,omitempty"`
}

// ExecutionState is the full durable record for one execution: its identity,
// start time, per-step outcomes, and explicit completion flag. Completion is
// set only by StepExecutor.Complete, never inferred from step statuses.
type ExecutionState struct {
	ExecutionID string                 `json:"execution_id"`
	StartedAt   time.Time              `json:"started_at"`
	Steps       map[string]*StepRecord `json:"steps"`
	Completed   bool                   `json:"completed"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
}

// NewExecutionState creates the initial state materialized on the first
// operation against an execution id.
func NewExecutionState(executionID string) *ExecutionState {
	return &ExecutionState{
		ExecutionID: executionID,
		StartedAt:   time.Now().UTC(),
		Steps:       make(map[string]*StepRecord),
	}
}

// ExecutionKey returns the store key for an execution id. Each execution
// occupies exactly one key.
func ExecutionKey(executionID string) string {
	return "execution:" + executionID
}

// MarshalState serializes an execution state for storage.
func MarshalState(state *ExecutionState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize execution state: %w", err)
	}
	return data, nil
}

// UnmarshalState deserializes an execution state loaded from storage.
func UnmarshalState(data []byte) (*ExecutionState, error) {
	var state ExecutionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to deserialize execution state: %w", err)
	}
	if state.Steps == nil {
		state.Steps = make(map[string]*StepRecord)
	}
	return &state, nil
}
