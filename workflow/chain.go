package workflow

import "context"

// Chain runs steps sequentially. Each step sees the updates of the steps
// before it.
type Chain[S any] struct {
	name  string
	steps []Step[S]
}

// NewChain creates a sequential step.
func NewChain[S any](name string, steps ...Step[S]) *Chain[S] {
	return &Chain[S]{name: name, steps: steps}
}

// Name returns the chain name.
func (c *Chain[S]) Name() string { return c.name }

// Run executes the chain on a private copy of state and returns the
// combined update.
func (c *Chain[S]) Run(ctx context.Context, state S) (Delta[S], error) {
	return runDetached[S](ctx, c, state)
}

func (c *Chain[S]) execute(ctx context.Context, x *execution[S]) error {
	for _, s := range c.steps {
		if err := x.step(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
