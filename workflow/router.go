package workflow

import (
	"context"

	"github.com/spetersoncode/blogsmith/event"
)

// Condition decides whether a route is taken.
type Condition[S any] func(state S) bool

// Route is one conditional path out of a router. A nil Condition always
// matches. A nil Step passes through and continues with whatever follows
// the router; such a route is never reported as skipped.
type Route[S any] struct {
	Name      string
	Condition Condition[S]
	Step      Step[S]
}

// Router selects one route by evaluating conditions in order.
type Router[S any] struct {
	name   string
	routes []Route[S]
}

// NewRouter creates a conditional router. Routes are evaluated in order;
// first match wins. If none match the router fails with ErrNoRouteMatched.
func NewRouter[S any](name string, routes ...Route[S]) *Router[S] {
	return &Router[S]{name: name, routes: routes}
}

// Name returns the router name.
func (r *Router[S]) Name() string { return r.name }

// Run executes the router on a private copy of state and returns the
// combined update.
func (r *Router[S]) Run(ctx context.Context, state S) (Delta[S], error) {
	return runDetached[S](ctx, r, state)
}

// Select returns the index of the first matching route, or -1.
func (r *Router[S]) Select(state S) int {
	for i, route := range r.routes {
		if route.Condition == nil || route.Condition(state) {
			return i
		}
	}
	return -1
}

func (r *Router[S]) execute(ctx context.Context, x *execution[S]) error {
	idx := r.Select(x.snapshot())
	if idx < 0 {
		return &StepError{StepName: r.name, Err: ErrNoRouteMatched}
	}
	selected := r.routes[idx]

	x.emit(ctx, event.Event{
		Type:      event.RouteSelected,
		StepName:  r.name,
		RouteName: selected.Name,
	})
	for i, route := range r.routes {
		if i != idx && route.Step != nil {
			x.emit(ctx, event.Event{Type: event.StepSkipped, StepName: route.Name})
		}
	}

	if selected.Step == nil {
		return nil
	}
	return x.step(ctx, selected.Step)
}
