package client

import (
	"time"

	ai "github.com/spetersoncode/openresponses"
	"github.com/spetersoncode/openresponses/retry"
)

// EventType identifies a step of one Send or Create call.
type EventType string

const (
	EventRequestStart    EventType = "request_start"
	EventRequestComplete EventType = "request_complete"
	EventRequestError    EventType = "request_error"

	// EventRetry wraps a retry.Event; one request may produce several.
	EventRetry EventType = "retry"
)

// Event reports request progress on the channel given to WithEvents.
// Endpoint and Model are always set; the other fields depend on Type.
type Event struct {
	Type     EventType
	Endpoint string
	Model    string

	// Duration covers all attempts. Set on completion and error.
	Duration time.Duration

	// Usage is the server-reported usage of a completed request, if any.
	Usage *ai.Usage

	Error      error
	RetryEvent *retry.Event
	Timestamp  time.Time
}

func emit(ch chan<- Event, event Event) {
	if ch == nil {
		return
	}
	event.Timestamp = time.Now()
	select {
	case ch <- event:
	default:
	}
}
