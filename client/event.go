package client

import (
	"time"

	ai "github.com/spetersoncode/blogsmith"
	"github.com/spetersoncode/blogsmith/internal/retry"
)

// EventType identifies the kind of event occurring during client operations.
type EventType string

const (
	// EventRequestStart fires before an API request begins.
	EventRequestStart EventType = "request_start"

	// EventRequestComplete fires after an API request completes successfully.
	EventRequestComplete EventType = "request_complete"

	// EventRequestError fires when an API request fails.
	EventRequestError EventType = "request_error"

	// EventRetry fires when an attempt fails or a retry is scheduled.
	EventRetry EventType = "retry"
)

// Event represents an observable occurrence during client operations.
type Event struct {
	Type EventType

	// Operation is "chat" or "image".
	Operation string

	Provider ai.Provider

	// Duration is the elapsed time for finished requests.
	Duration time.Duration

	// Usage is set on completed chat requests.
	Usage *ai.Usage

	Error error

	// RetryEvent is set for EventRetry.
	RetryEvent *retry.Event

	Timestamp time.Time
}

// emit sends an event with timestamp to the channel without blocking.
func (c *Client) emit(event Event) {
	if c.cfg.Events == nil {
		return
	}
	event.Timestamp = time.Now()
	select {
	case c.cfg.Events <- event:
	default:
		// Channel full - don't block
	}
}
