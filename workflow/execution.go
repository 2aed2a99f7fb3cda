package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/spetersoncode/blogsmith/event"
)

// execution holds the canonical state of one run.
type execution[S any] struct {
	runID  string
	opts   *Options
	events chan<- event.Event

	mu      sync.Mutex
	state   *S
	applied Deltas[S]
	record  bool
}

func (x *execution[S]) snapshot() S {
	x.mu.Lock()
	defer x.mu.Unlock()
	return *x.state
}

func (x *execution[S]) apply(d Delta[S]) {
	if d == nil {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	d.Apply(x.state)
	if x.record {
		x.applied = append(x.applied, d)
	}
}

func (x *execution[S]) emit(ctx context.Context, e event.Event) {
	e.RunID = x.runID
	event.Emit(ctx, x.events, e)
}

// step runs s against the current state and applies its delta.
func (x *execution[S]) step(ctx context.Context, s Step[S]) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c, ok := s.(composite[S]); ok {
		return c.execute(ctx, x)
	}

	x.emit(ctx, event.Event{Type: event.StepStart, StepName: s.Name()})

	d, err := x.runLeaf(ctx, s.Name(), func(ctx context.Context) (Delta[S], error) {
		return s.Run(ctx, x.snapshot())
	})
	if err != nil {
		return err
	}
	x.finish(ctx, s.Name(), d)
	return nil
}

// runLeaf applies the step timeout and wraps failures in a StepError.
func (x *execution[S]) runLeaf(ctx context.Context, name string, fn func(context.Context) (Delta[S], error)) (Delta[S], error) {
	if x.opts.StepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, x.opts.StepTimeout)
		defer cancel()
	}
	d, err := fn(ctx)
	if err != nil {
		var stepErr *StepError
		if errors.As(err, &stepErr) {
			return nil, err
		}
		return nil, &StepError{StepName: name, Err: err}
	}
	return d, nil
}

// finish applies d and reports it along with any warnings it carries.
func (x *execution[S]) finish(ctx context.Context, name string, d Delta[S]) {
	x.apply(d)
	x.emit(ctx, event.Event{Type: event.StepEnd, StepName: name, Delta: d})
	if w, ok := d.(WarningCarrier); ok {
		for _, msg := range w.WarningMessages() {
			x.emit(ctx, event.Event{Type: event.Warning, StepName: name, Message: msg})
		}
	}
}

// runDetached executes a composite outside a workflow, on a private copy of
// state, and returns the deltas it applied.
func runDetached[S any](ctx context.Context, c composite[S], state S) (Delta[S], error) {
	x := &execution[S]{
		opts:   ApplyOptions(),
		state:  &state,
		record: true,
	}
	if err := c.execute(ctx, x); err != nil {
		return nil, err
	}
	return x.applied, nil
}
