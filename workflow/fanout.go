package workflow

import (
	"context"

	"github.com/spetersoncode/blogsmith/event"
	"golang.org/x/sync/errgroup"
)

// WorkerFunc processes one fan-out input.
type WorkerFunc[S, I any] func(ctx context.Context, input I) (Delta[S], error)

// FanOut splits the state into independent inputs and runs one worker per
// input concurrently. Each delta is applied as soon as its worker finishes,
// so contributions land in arrival order.
type FanOut[S, I any] struct {
	name   string
	split  func(state S) []I
	worker WorkerFunc[S, I]
}

// NewFanOut creates a fan-out step. The name labels the fan-out events and
// every branch's step events.
func NewFanOut[S, I any](name string, split func(state S) []I, worker WorkerFunc[S, I]) *FanOut[S, I] {
	return &FanOut[S, I]{name: name, split: split, worker: worker}
}

// Name returns the fan-out name.
func (f *FanOut[S, I]) Name() string { return f.name }

// Run executes the fan-out on a private copy of state and returns the
// combined update.
func (f *FanOut[S, I]) Run(ctx context.Context, state S) (Delta[S], error) {
	return runDetached[S](ctx, f, state)
}

func (f *FanOut[S, I]) execute(ctx context.Context, x *execution[S]) error {
	inputs := f.split(x.snapshot())
	x.emit(ctx, event.Event{Type: event.FanOutStart, StepName: f.name, Branches: len(inputs)})

	g, gctx := errgroup.WithContext(ctx)
	if x.opts.MaxConcurrency > 0 {
		g.SetLimit(x.opts.MaxConcurrency)
	}

	for _, input := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			x.emit(gctx, event.Event{Type: event.StepStart, StepName: f.name})
			d, err := x.runLeaf(gctx, f.name, func(ctx context.Context) (Delta[S], error) {
				return f.worker(ctx, input)
			})
			if err != nil {
				return err
			}
			x.finish(gctx, f.name, d)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	x.emit(ctx, event.Event{Type: event.FanOutEnd, StepName: f.name, Branches: len(inputs)})
	return nil
}
