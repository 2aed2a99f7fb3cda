package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/blogsmith/blog"
	"github.com/spetersoncode/blogsmith/event"
)

// WarningPrefix starts the text message that carries a warning.
const WarningPrefix = "⚠️ "

// Mapper converts run events to AG-UI events.
type Mapper struct {
	threadID string
	runID    string
}

// NewMapper creates a Mapper for a single run. Empty IDs are generated.
func NewMapper(threadID, runID string) *Mapper {
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	if runID == "" {
		runID = events.GenerateRunID()
	}
	return &Mapper{threadID: threadID, runID: runID}
}

// ThreadID returns the thread ID for this mapper.
func (m *Mapper) ThreadID() string { return m.threadID }

// RunID returns the run ID for this mapper.
func (m *Mapper) RunID() string { return m.runID }

// RunStarted returns a RUN_STARTED event.
func (m *Mapper) RunStarted() events.Event {
	return events.NewRunStartedEvent(m.threadID, m.runID)
}

// RunFinished returns a RUN_FINISHED event.
func (m *Mapper) RunFinished() events.Event {
	return events.NewRunFinishedEvent(m.threadID, m.runID)
}

// RunError returns a RUN_ERROR event.
func (m *Mapper) RunError(err error) events.Event {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return events.NewRunErrorEvent(msg)
}

// TextMessage returns the start, content and end events of one assistant
// message.
func (m *Mapper) TextMessage(text string) []events.Event {
	id := events.GenerateMessageID()
	return []events.Event{
		events.NewTextMessageStartEvent(id, events.WithRole(RoleAssistant)),
		events.NewTextMessageContentEvent(id, text),
		events.NewTextMessageEndEvent(id),
	}
}

// MapEvent converts one run event. It returns nil for events with no
// AG-UI equivalent.
func (m *Mapper) MapEvent(e event.Event) []events.Event {
	switch e.Type {
	case event.RunStart:
		return []events.Event{m.RunStarted()}
	case event.RunEnd:
		var out []events.Event
		if state, ok := e.State.(blog.State); ok && state.FinalMarkdown != "" {
			out = append(out, m.TextMessage(state.FinalMarkdown)...)
		}
		return append(out, m.RunFinished())
	case event.RunError:
		return []events.Event{m.RunError(e.Error)}

	case event.StepStart, event.FanOutStart:
		return []events.Event{events.NewStepStartedEvent(e.StepName)}
	case event.StepEnd, event.FanOutEnd, event.StepSkipped:
		return []events.Event{events.NewStepFinishedEvent(e.StepName)}

	case event.Warning:
		if e.Message == "" {
			return nil
		}
		return m.TextMessage(WarningPrefix + e.Message)

	default:
		return nil
	}
}

// MapStream converts a run's event stream. The returned channel closes
// when in closes.
func (m *Mapper) MapStream(in <-chan event.Event) <-chan events.Event {
	out := make(chan events.Event, event.BufferSize)
	go func() {
		defer close(out)
		for e := range in {
			for _, ev := range m.MapEvent(e) {
				out <- ev
			}
		}
	}()
	return out
}
