package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrWorkflowTimeout indicates the workflow exceeded its timeout.
	ErrWorkflowTimeout = errors.New("workflow: timeout exceeded")

	// ErrWorkflowCancelled indicates the workflow was cancelled.
	ErrWorkflowCancelled = errors.New("workflow: cancelled")

	// ErrNoRouteMatched indicates no route condition was satisfied.
	ErrNoRouteMatched = errors.New("workflow: no route matched")
)

// StepError wraps errors from step execution.
type StepError struct {
	StepName string
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("workflow: step %q failed: %v", e.StepName, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
