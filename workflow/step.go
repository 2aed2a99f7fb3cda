package workflow

import "context"

// Delta is a state update produced by a step.
type Delta[S any] interface {
	// Apply merges the update into state.
	Apply(state *S)
}

// Deltas applies a sequence of updates in order.
type Deltas[S any] []Delta[S]

// Apply applies every delta in order.
func (ds Deltas[S]) Apply(state *S) {
	for _, d := range ds {
		if d != nil {
			d.Apply(state)
		}
	}
}

// WarningCarrier is implemented by deltas that carry non-fatal warnings. The
// workflow emits one warning event per message after the step ends.
type WarningCarrier interface {
	WarningMessages() []string
}

// Step is a unit of work over state S.
type Step[S any] interface {
	// Name identifies the step in events and errors.
	Name() string

	// Run computes an update from a read-only snapshot of the state.
	// A nil delta means no change.
	Run(ctx context.Context, state S) (Delta[S], error)
}

// StepFunc is the function signature for leaf steps.
type StepFunc[S any] func(ctx context.Context, state S) (Delta[S], error)

// FuncStep wraps a function as a Step.
type FuncStep[S any] struct {
	name string
	fn   StepFunc[S]
}

// NewStep creates a leaf step from a function.
func NewStep[S any](name string, fn StepFunc[S]) *FuncStep[S] {
	return &FuncStep[S]{name: name, fn: fn}
}

// Name returns the step name.
func (s *FuncStep[S]) Name() string { return s.name }

// Run executes the function.
func (s *FuncStep[S]) Run(ctx context.Context, state S) (Delta[S], error) {
	return s.fn(ctx, state)
}

// composite is implemented by steps that schedule other steps. The
// execution calls execute instead of Run so that nested steps are observed
// individually.
type composite[S any] interface {
	execute(ctx context.Context, x *execution[S]) error
}
