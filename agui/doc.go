// Package agui exposes blog runs over the AG-UI protocol.
//
// AG-UI (Agent-User Interface) is an event-based protocol for streaming
// agent progress to user-facing applications. This package converts a
// run's event stream into AG-UI events and decodes the AG-UI request that
// starts a run.
//
// # Usage
//
//	prepared, err := input.Prepare()
//	mapper := agui.NewMapper(prepared.ThreadID, prepared.RunID)
//	for ev := range mapper.MapStream(p.Stream(ctx, prepared.Input())) {
//	    writeSSE(w, ev)
//	}
//
// # Event Mapping
//
//   - run_start → RUN_STARTED
//   - step_start, fanout_start → STEP_STARTED
//   - step_end, step_skipped, fanout_end → STEP_FINISHED
//   - warning → an assistant text message carrying the warning
//   - run_end → an assistant text message with the final post, then RUN_FINISHED
//   - run_error → RUN_ERROR
//
// route_selected has no AG-UI equivalent and is dropped.
//
// The Mapper is not safe for concurrent use; create one per run.
package agui
