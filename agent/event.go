package agent

import (
	"context"
	"time"

	ai "github.com/spetersoncode/openresponses"
)

// State is a state of the agent loop.
type State string

const (
	// StateAwaitingModel waits for the next response.
	StateAwaitingModel State = "awaiting_model"

	// StateHasFunctionCalls holds a response with unresolved function calls.
	// In ModeServerDriven it is terminal: the calls are left to the caller.
	StateHasFunctionCalls State = "has_function_calls"

	// StateExecutingTools runs the unresolved calls of the latest response.
	StateExecutingTools State = "executing_tools"

	// StateDone is reached when the model answers without unresolved calls.
	StateDone State = "done"

	// StateBudgetExceeded is a controlled stop once the budget is spent.
	StateBudgetExceeded State = "budget_exceeded"

	// StateFailed is reached on an unrecovered transport or decode error.
	StateFailed State = "failed"
)

// Terminal reports whether the loop stops in s.
func (s State) Terminal() bool {
	switch s {
	case StateDone, StateBudgetExceeded, StateFailed:
		return true
	}
	return false
}

// EventType identifies the kind of event occurring during agent execution.
type EventType string

const (
	// EventRunStart fires once before the first request.
	EventRunStart EventType = "run_start"

	// EventTurnStart fires before each request to the model.
	EventTurnStart EventType = "turn_start"

	// EventTurnEnd fires after a response has been handled.
	EventTurnEnd EventType = "turn_end"

	// EventToolCall fires before a function call is executed.
	EventToolCall EventType = "tool_call"

	// EventToolResult fires after a function call produced its output.
	EventToolResult EventType = "tool_result"

	// EventRunEnd fires when the run stops without error.
	EventRunEnd EventType = "run_end"

	// EventRunError fires when the run fails.
	EventRunError EventType = "run_error"
)

// Event represents an observable occurrence during agent execution.
type Event struct {
	// Type identifies the kind of event.
	Type EventType

	// RunID identifies the run that produced the event.
	RunID string

	// Turn is the 1-indexed turn the event belongs to.
	Turn int

	// State is the loop state when the event was emitted.
	State State

	// Response is the model response for EventTurnEnd.
	Response *ai.Response

	// Call is the function call for tool events.
	Call *ai.FunctionCall

	// Output is the produced output for EventToolResult.
	Output *ai.FunctionCallOutput

	// Result is the final result for EventRunEnd and EventRunError.
	Result *Result

	// Error contains the error for EventRunError.
	Error error

	// Message contains additional context (e.g., a rejection reason).
	Message string

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// emit sends an event with timestamp to the channel (non-blocking).
// A nil channel discards the event.
func emit(ch chan<- Event, e Event) {
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
		// Channel full - don't block
	}
}

// emitFinal delivers a terminal event, waiting for buffer space until ctx
// ends. The terminal event carries the Result, so it is never dropped for a
// slow reader.
func emitFinal(ctx context.Context, ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	case <-ctx.Done():
	}
}

// Result represents the final outcome of an agent run.
type Result struct {
	// RunID identifies the run; it is also the store key of the context.
	RunID string

	// Mode is the mode the run executed in.
	Mode Mode

	// State is the terminal state reached.
	State State

	// Response is the latest response received, or nil if none was.
	Response *ai.Response

	// Responses holds every response in request order.
	Responses []*ai.Response

	// Turns is the number of completed tool turns.
	Turns int

	// ToolCalls is the number of function calls executed locally, or
	// answered by the server in ModeServerDriven.
	ToolCalls int

	// TotalUsage aggregates token usage across all responses.
	TotalUsage ai.Usage

	// Context is the conversation sent with the last request plus the items
	// appended after it.
	Context []ai.Item

	// BudgetExceeded is set when the run stopped on its budget.
	BudgetExceeded bool

	// PendingCalls are function calls left unanswered: server-driven calls
	// for the caller to execute, or calls cut off by the budget.
	PendingCalls []*ai.FunctionCall

	// Err is the error that failed the run, if any.
	Err error
}

// Text returns the text of the latest response.
func (r *Result) Text() string {
	if r == nil || r.Response == nil {
		return ""
	}
	return r.Response.Text()
}

// Done reports whether the run completed with a final answer.
func (r *Result) Done() bool {
	return r != nil && r.State == StateDone
}
