package agui

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/spetersoncode/blogsmith/pipeline"
)

// RoleUser and RoleAssistant match the AG-UI protocol roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// RunAgentInput is the AG-UI request body for starting a run.
type RunAgentInput struct {
	ThreadID       string           `json:"thread_id"`
	RunID          string           `json:"run_id"`
	Messages       []events.Message `json:"messages"`
	Tools          []any            `json:"tools,omitempty"`
	Context        []any            `json:"context,omitempty"`
	State          any              `json:"state,omitempty"`
	ForwardedProps any              `json:"forwarded_props,omitempty"`
}

// RunState is the frontend state a run accepts.
type RunState struct {
	Topic string `json:"topic"`
	AsOf  string `json:"as_of"`
}

// PreparedInput is a validated request.
type PreparedInput struct {
	ThreadID string
	RunID    string
	Topic    string
	AsOf     string
}

// ErrNoTopic is returned when neither the state nor a user message names
// a topic.
var ErrNoTopic = errors.New("no topic provided")

// Prepare validates the input. The topic comes from state.topic, falling
// back to the last user message.
func (r *RunAgentInput) Prepare() (*PreparedInput, error) {
	state, err := DecodeState[RunState](r.State)
	if err != nil {
		return nil, err
	}

	topic := strings.TrimSpace(state.Topic)
	if topic == "" {
		topic = lastUserMessage(r.Messages)
	}
	if topic == "" {
		return nil, ErrNoTopic
	}

	return &PreparedInput{
		ThreadID: r.ThreadID,
		RunID:    r.RunID,
		Topic:    topic,
		AsOf:     strings.TrimSpace(state.AsOf),
	}, nil
}

// Input returns the pipeline input for the request.
func (p *PreparedInput) Input() pipeline.Input {
	return pipeline.Input{Topic: p.Topic, AsOf: p.AsOf}
}

func lastUserMessage(msgs []events.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role != RoleUser || msgs[i].Content == nil {
			continue
		}
		if s := strings.TrimSpace(*msgs[i].Content); s != "" {
			return s
		}
	}
	return ""
}

// DecodeState decodes raw frontend state into T. A nil state yields the
// zero value.
func DecodeState[T any](raw any) (T, error) {
	var result T
	if raw == nil {
		return result, nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, err
	}
	return result, nil
}
