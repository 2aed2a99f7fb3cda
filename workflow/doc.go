// Package workflow runs a small directed graph of steps over a typed state.
//
// Steps never mutate shared state. Each step receives a snapshot of the
// current state and returns a Delta; the workflow applies deltas to the
// canonical state in the order they arrive and reports each one as a
// step_end event.
//
// The package implements the three patterns a content pipeline needs:
//   - Chain: sequential execution
//   - Router: first matching condition wins, an empty route passes through
//   - FanOut: one worker per input, run concurrently, deltas applied as
//     they complete
//
// Chain, Router and FanOut are themselves Steps and nest freely.
//
// # Basic Usage
//
//	type State struct {
//	    Topic string
//	    Notes []string
//	}
//
//	type AddNote string
//
//	func (n AddNote) Apply(s *State) { s.Notes = append(s.Notes, string(n)) }
//
//	wf := workflow.New("notes", workflow.NewChain("main",
//	    workflow.NewStep("draft", func(ctx context.Context, s State) (workflow.Delta[State], error) {
//	        return AddNote("draft for " + s.Topic), nil
//	    }),
//	))
//
//	result, err := wf.Run(ctx, State{Topic: "Go"})
//
// # Streaming
//
// RunStream returns a buffered channel of event.Event values. Every
// step_end carries the node name and its delta. Sends block until the
// consumer receives them or the run context ends, so no delta is dropped.
// The channel closes after run_end or run_error.
//
// # Timeouts
//
// WithTimeout bounds the whole run and WithStepTimeout (default 5 minutes)
// bounds each leaf step and each fan-out branch.
package workflow
