package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spetersoncode/blogsmith/event"
)

// TerminationReason indicates why the workflow stopped.
type TerminationReason string

const (
	// TerminationComplete indicates normal completion.
	TerminationComplete TerminationReason = "complete"

	// TerminationTimeout indicates the run deadline was exceeded.
	TerminationTimeout TerminationReason = "timeout"

	// TerminationCancelled indicates context cancellation.
	TerminationCancelled TerminationReason = "cancelled"

	// TerminationError indicates a step failed.
	TerminationError TerminationReason = "error"
)

// Result represents the final outcome of a run.
type Result[S any] struct {
	RunID        string
	WorkflowName string

	// State is the state after every applied delta. On failure it holds
	// whatever was applied before the failing step.
	State S

	Termination TerminationReason
	Error       error
}

// Workflow is the top-level orchestrator that wraps a root step.
type Workflow[S any] struct {
	name string
	root Step[S]
	opts []Option
}

// New creates a workflow. Options given here apply to every run and may be
// overridden per run.
func New[S any](name string, root Step[S], opts ...Option) *Workflow[S] {
	return &Workflow[S]{name: name, root: root, opts: opts}
}

// Name returns the workflow name.
func (w *Workflow[S]) Name() string { return w.name }

// Run executes the workflow synchronously.
func (w *Workflow[S]) Run(ctx context.Context, initial S, opts ...Option) (*Result[S], error) {
	result := w.run(ctx, initial, nil, opts)
	return result, result.Error
}

// RunStream executes the workflow in the background and returns its event
// stream. The last event is run_end, whose State is the final state, or
// run_error.
func (w *Workflow[S]) RunStream(ctx context.Context, initial S, opts ...Option) <-chan event.Event {
	ch := event.NewChannel()
	go func() {
		defer close(ch)
		w.run(ctx, initial, ch, opts)
	}()
	return ch
}

func (w *Workflow[S]) run(ctx context.Context, initial S, ch chan<- event.Event, opts []Option) *Result[S] {
	options := ApplyOptions(append(append([]Option{}, w.opts...), opts...)...)

	runCtx := ctx
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	state := initial
	x := &execution[S]{
		runID:  uuid.NewString(),
		opts:   options,
		events: ch,
		state:  &state,
	}

	x.emit(runCtx, event.Event{Type: event.RunStart, StepName: w.name})

	err := x.step(runCtx, w.root)
	result := &Result[S]{
		RunID:        x.runID,
		WorkflowName: w.name,
		State:        x.snapshot(),
		Termination:  TerminationComplete,
	}

	if err != nil {
		result.Termination = terminationOf(ctx, runCtx)
		switch result.Termination {
		case TerminationTimeout:
			err = fmt.Errorf("%w: %w", ErrWorkflowTimeout, err)
		case TerminationCancelled:
			err = fmt.Errorf("%w: %w", ErrWorkflowCancelled, err)
		}
		result.Error = err
		// The run context may already be done; the caller's is still live on timeout.
		x.emit(ctx, event.Event{
			Type:     event.RunError,
			StepName: w.name,
			Error:    err,
			Message:  string(result.Termination),
		})
		return result
	}

	x.emit(runCtx, event.Event{
		Type:     event.RunEnd,
		StepName: w.name,
		State:    result.State,
		Message:  string(TerminationComplete),
	})
	return result
}

// terminationOf classifies a failed run by the state of its contexts.
func terminationOf(parent, run context.Context) TerminationReason {
	switch {
	case errors.Is(parent.Err(), context.Canceled):
		return TerminationCancelled
	case errors.Is(run.Err(), context.DeadlineExceeded):
		return TerminationTimeout
	default:
		return TerminationError
	}
}
