package retry

import "time"

// EventType identifies the kind of event occurring during retry execution.
type EventType string

const (
	EventAttemptFailed EventType = "attempt_failed"
	EventRetrying      EventType = "retrying"
	EventExhausted     EventType = "exhausted"
)

// Event describes a failed attempt or an upcoming retry.
type Event struct {
	Type        EventType
	Attempt     int // 1-indexed
	MaxAttempts int
	Error       error
	Delay       time.Duration // set for EventRetrying
	Retryable   bool
}

// Observer receives retry events. It is called synchronously.
type Observer func(Event)

func (o Observer) notify(e Event) {
	if o != nil {
		o(e)
	}
}
