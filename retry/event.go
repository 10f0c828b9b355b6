package retry

import "time"

// EventType identifies a step of a retried operation.
type EventType string

const (
	EventAttemptStart  EventType = "attempt_start"
	EventAttemptFailed EventType = "attempt_failed"
	EventRetrying      EventType = "retrying"
	EventSuccess       EventType = "success"
	EventExhausted     EventType = "exhausted"
)

// Event reports one step of DoWithEvents.
type Event struct {
	Type EventType

	// Attempt is 1-indexed.
	Attempt     int
	MaxAttempts int

	// Error and Status describe the failed attempt. Status is the HTTP
	// status of a transport error, or 0.
	Error  error
	Status int

	// Retryable is set on EventAttemptFailed when another attempt may follow.
	Retryable bool

	// Delay is the wait before the next attempt, set on EventRetrying.
	Delay time.Duration

	Timestamp time.Time
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
