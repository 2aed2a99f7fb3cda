// Package event defines the observation events a pipeline run emits. The
// event types map one-to-one onto the AG-UI protocol where a counterpart
// exists.
package event

import (
	"context"
	"time"
)

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires when a run begins.
	RunStart Type = "run_start"

	// RunEnd fires when a run completes successfully. State holds the final state.
	RunEnd Type = "run_end"

	// RunError fires when a run aborts.
	RunError Type = "run_error"
)

// Step lifecycle events
const (
	// StepStart fires when a step begins.
	StepStart Type = "step_start"

	// StepEnd fires when a step completes. Delta holds the update it produced.
	StepEnd Type = "step_end"

	// StepSkipped fires for a route that was not taken.
	StepSkipped Type = "step_skipped"
)

// Workflow-specific events
const (
	// RouteSelected fires when a conditional route is chosen.
	RouteSelected Type = "route_selected"

	// FanOutStart fires before parallel branches are dispatched.
	FanOutStart Type = "fanout_start"

	// FanOutEnd fires after every branch has contributed.
	FanOutEnd Type = "fanout_end"

	// Warning reports a degraded but non-fatal condition.
	Warning Type = "warning"
)

// Event represents an observable occurrence during a run.
type Event struct {
	Type Type

	// RunID identifies the run that produced the event.
	RunID string

	// StepName identifies the node for step, route and fan-out events.
	StepName string

	// RouteName identifies the selected route for RouteSelected events.
	RouteName string

	// Branches is the number of parallel branches for FanOut events.
	Branches int

	// Delta is the state update a node produced (StepEnd only).
	Delta any

	// State is the final state (RunEnd only).
	State any

	// Error contains the error for RunError events.
	Error error

	// Message carries warnings and termination reasons.
	Message string

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Emit stamps e and sends it on ch, blocking until the consumer receives it
// or ctx is done. It reports whether the event was delivered. A nil channel
// discards the event.
func Emit(ctx context.Context, ch chan<- Event, e Event) bool {
	if ch == nil {
		return false
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

// BufferSize is the capacity of channels created by NewChannel.
const BufferSize = 100

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, BufferSize)
}

// IsTerminal reports whether t ends a run's event stream.
func (t Type) IsTerminal() bool {
	return t == RunEnd || t == RunError
}
