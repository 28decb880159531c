package durable

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const dateStampLayout = "2006-01-02"

// GenerateExecutionID composes a stable execution id from a workflow id and
// an event id, scoped to the current UTC calendar date.
//
// The date granularity is a deliberate idempotency boundary: two invocations
// for the same workflow and event on the same day collapse onto the same
// execution id and therefore share one checkpoint trail, while invocations
// on different days are distinct executions. Callers needing a finer or
// coarser window should use GenerateExecutionIDWithDate.
func GenerateExecutionID(workflowID, eventID string) string {
	return GenerateExecutionIDWithDate(
		workflowID, eventID, time.Now().UTC().Format(dateStampLayout))
}

// GenerateExecutionIDWithDate composes an execution id with an explicit date
// stamp (or any caller-chosen idempotency window token).
func GenerateExecutionIDWithDate(workflowID, eventID, dateStamp string) string {
	return fmt.Sprintf("%s:%s:%s", workflowID, eventID, dateStamp)
}

// NewExecutionID returns a random execution id for ad-hoc runs that have no
// natural workflow/event identity.
func NewExecutionID() string {
	return fmt.Sprintf("exec_%s", uuid.New())
}
