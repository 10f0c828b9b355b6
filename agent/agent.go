package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	ai "github.com/spetersoncode/openresponses"
	"github.com/spetersoncode/openresponses/store"
	"github.com/spetersoncode/openresponses/tool"
)

// Sender sends one request to the responses endpoint.
// *client.Client satisfies it.
type Sender interface {
	Send(ctx context.Context, input ai.Input, opts ...ai.Option) (*ai.Response, error)
}

// Agent orchestrates tool-calling conversations against a Sender.
// An Agent holds no per-run state; concurrent runs are independent.
type Agent struct {
	sender   Sender
	registry *tool.Registry
}

// New creates a new Agent with the given sender and tool registry.
// A nil registry is treated as empty.
func New(sender Sender, registry *tool.Registry) *Agent {
	if registry == nil {
		registry = tool.NewRegistry()
	}
	return &Agent{
		sender:   sender,
		registry: registry,
	}
}

// Registry returns the agent's tool registry.
func (a *Agent) Registry() *tool.Registry {
	return a.registry
}

// Run executes the agent loop and returns the final result.
// This is a blocking call that runs until the loop reaches a terminal state.
//
// Budget exhaustion is not an error: the result has State
// StateBudgetExceeded and a nil error. A failed request returns the error
// together with the partial result.
func (a *Agent) Run(ctx context.Context, task string, opts ...Option) (*Result, error) {
	result := a.run(ctx, task, nil, ApplyOptions(opts...))
	return result, result.Err
}

// RunStream executes the agent loop and returns a channel of events.
// The channel is closed when the run reaches a terminal state; the last
// event is EventRunEnd or EventRunError carrying the Result.
// Progress events are dropped rather than blocking the loop when the buffer
// is full. The terminal event waits for the reader until ctx ends.
func (a *Agent) RunStream(ctx context.Context, task string, opts ...Option) <-chan Event {
	eventCh := make(chan Event, 100)

	go func() {
		defer close(eventCh)
		a.run(ctx, task, eventCh, ApplyOptions(opts...))
	}()

	return eventCh
}

// loopState is owned by one run and never shared.
type loopState struct {
	runID     string
	caller    context.Context // bounds the terminal event send
	state     State
	turns     int
	toolCalls int
	usage     ai.Usage
	context   *store.ItemStore
	responses []*ai.Response
	resolved  map[string]bool
	pending   []*ai.FunctionCall
}

func (a *Agent) run(ctx context.Context, task string, eventCh chan<- Event, o *Options) *Result {
	s := &loopState{
		runID:    uuid.NewString(),
		caller:   ctx,
		state:    StateAwaitingModel,
		resolved: make(map[string]bool),
	}
	s.context = store.NewItemStore(o.Store)
	log := o.Logger.With("run", s.runID, "mode", string(o.Mode))

	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}

	emit(eventCh, Event{Type: EventRunStart, RunID: s.runID, State: s.state})

	switch {
	case a.sender == nil:
		return a.fail(s, o, eventCh, ErrNilSender)
	case task == "":
		return a.fail(s, o, eventCh, ErrEmptyTask)
	}

	s.context.Append(ai.NewUserMessage(task))
	log.Debug("run started", "tools", a.registry.Len(), "budget", o.MaxToolCalls)

	if o.Mode == ModeServerDriven {
		return a.runServerDriven(ctx, s, o, eventCh, log)
	}
	return a.runClientDriven(ctx, s, o, eventCh, log)
}

// runServerDriven sends one request and leaves the tool loop to the server.
func (a *Agent) runServerDriven(ctx context.Context, s *loopState, o *Options, eventCh chan<- Event, log *slog.Logger) *Result {
	reqOpts := a.requestOptions(o)
	if o.MaxToolCalls > 0 {
		reqOpts = append(reqOpts, ai.WithMaxToolCalls(o.MaxToolCalls))
	}

	emit(eventCh, Event{Type: EventTurnStart, RunID: s.runID, Turn: 1, State: s.state})
	resp, err := a.sender.Send(ctx, ai.ItemsInput(s.context.Items()...), reqOpts...)
	if err != nil {
		return a.fail(s, o, eventCh, err)
	}
	s.record(resp)
	s.toolCalls = len(resp.FunctionCallOutputs())
	s.context.Append(resp.Output...)

	if pending := resp.PendingCalls(nil); len(pending) > 0 {
		s.state = StateHasFunctionCalls
		s.pending = pending
		log.Debug("server left function calls unanswered", "pending", len(pending))
	} else {
		s.state = StateDone
		if !resp.HasMessage() {
			log.Warn("response has neither message nor function calls", "response", resp.ID)
		}
	}

	emit(eventCh, Event{Type: EventTurnEnd, RunID: s.runID, Turn: 1, State: s.state, Response: resp})
	a.sync(ctx, s, o, log)
	return a.finish(s, o, eventCh)
}

// runClientDriven executes function calls locally until the model answers
// or the budget is spent.
func (a *Agent) runClientDriven(ctx context.Context, s *loopState, o *Options, eventCh chan<- Event, log *slog.Logger) *Result {
	reqOpts := a.requestOptions(o)

	for {
		turn := s.turns + 1
		s.state = StateAwaitingModel

		if err := ctx.Err(); err != nil {
			return a.fail(s, o, eventCh, err)
		}

		emit(eventCh, Event{Type: EventTurnStart, RunID: s.runID, Turn: turn, State: s.state})
		resp, err := a.sender.Send(ctx, ai.ItemsInput(s.context.Items()...), reqOpts...)
		if err != nil {
			return a.fail(s, o, eventCh, err)
		}
		s.record(resp)

		calls := resp.PendingCalls(s.resolved)
		if len(calls) == 0 {
			s.state = StateDone
			if !resp.HasMessage() {
				log.Warn("response has neither message nor function calls", "response", resp.ID)
			}
			s.context.Append(resp.Output...)
			emit(eventCh, Event{Type: EventTurnEnd, RunID: s.runID, Turn: turn, State: s.state, Response: resp})
			a.sync(ctx, s, o, log)
			return a.finish(s, o, eventCh)
		}

		s.state = StateHasFunctionCalls
		var cut []*ai.FunctionCall
		if remaining := s.remainingCalls(o); remaining >= 0 && remaining < len(calls) {
			calls, cut = calls[:remaining], calls[remaining:]
		}

		s.state = StateExecutingTools
		outputs := a.executeCalls(ctx, calls, o, turn, s.runID, eventCh, log)

		s.context.Append(resp.Output...)
		for _, out := range outputs {
			s.context.Append(out)
			s.resolved[out.CallID] = true
		}
		s.turns++
		s.toolCalls += len(calls)

		log.Debug("turn complete",
			"turn", turn,
			"calls", len(calls),
			"input_tokens", resp.UsageOrZero().InputTokens,
			"output_tokens", resp.UsageOrZero().OutputTokens)

		if len(cut) > 0 || s.budgetReached(o) {
			s.state = StateBudgetExceeded
			s.pending = cut
			log.Info("budget exceeded", "turns", s.turns, "tool_calls", s.toolCalls)
		} else {
			s.state = StateAwaitingModel
		}

		emit(eventCh, Event{Type: EventTurnEnd, RunID: s.runID, Turn: turn, State: s.state, Response: resp})
		a.sync(ctx, s, o, log)

		if s.state == StateBudgetExceeded {
			return a.finish(s, o, eventCh)
		}
	}
}

func (a *Agent) requestOptions(o *Options) []ai.Option {
	opts := make([]ai.Option, 0, len(o.RequestOptions)+1)
	if tools := a.registry.Tools(); len(tools) > 0 {
		opts = append(opts, ai.WithTools(tools))
	}
	return append(opts, o.RequestOptions...)
}

// executeCalls runs calls and returns their outputs in call order.
func (a *Agent) executeCalls(ctx context.Context, calls []*ai.FunctionCall, o *Options, turn int, runID string, eventCh chan<- Event, log *slog.Logger) []*ai.FunctionCallOutput {
	outputs := make([]*ai.FunctionCallOutput, len(calls))

	if !o.ParallelToolCalls || len(calls) == 1 {
		for i, call := range calls {
			outputs[i] = a.executeCall(ctx, call, o, turn, runID, eventCh, log)
		}
		return outputs
	}

	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(idx int, call *ai.FunctionCall) {
			defer wg.Done()
			outputs[idx] = a.executeCall(ctx, call, o, turn, runID, eventCh, log)
		}(i, call)
	}
	wg.Wait()
	return outputs
}

// executeCall runs one call. Every failure becomes output text so the model
// can react to it; nothing here stops the loop.
func (a *Agent) executeCall(ctx context.Context, call *ai.FunctionCall, o *Options, turn int, runID string, eventCh chan<- Event, log *slog.Logger) *ai.FunctionCallOutput {
	emit(eventCh, Event{Type: EventToolCall, RunID: runID, Turn: turn, State: StateExecutingTools, Call: call})

	if o.requiresApproval(call.Name) {
		if approved, reason := o.Approver(ctx, call); !approved {
			if reason == "" {
				reason = "Tool call rejected"
			}
			out := ai.NewFunctionCallOutput(call.CallID, reason)
			emit(eventCh, Event{Type: EventToolResult, RunID: runID, Turn: turn, State: StateExecutingTools, Call: call, Output: out, Message: reason})
			return out
		}
	}

	execCtx := ctx
	if o.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, o.HandlerTimeout)
		defer cancel()
	}

	out, err := a.registry.Execute(execCtx, call)
	if err != nil {
		var notFound *tool.ErrToolNotFound
		if errors.As(err, &notFound) {
			log.Warn("model called unknown tool", "tool", call.Name, "call_id", call.CallID)
			out = ai.NewFunctionCallOutput(call.CallID, fmt.Sprintf("Unknown tool: %s", call.Name))
		} else {
			out = ai.NewFunctionCallOutput(call.CallID, tool.ErrorOutput(err))
		}
	}

	emit(eventCh, Event{Type: EventToolResult, RunID: runID, Turn: turn, State: StateExecutingTools, Call: call, Output: out})
	return out
}

// sync persists the running context. A store failure is logged and does not
// stop the run.
func (a *Agent) sync(ctx context.Context, s *loopState, o *Options, log *slog.Logger) {
	if o.Store == nil {
		return
	}
	if err := s.context.Sync(ctx, s.runID); err != nil {
		log.Warn("persist context failed", "error", err)
	}
}

func (a *Agent) fail(s *loopState, o *Options, eventCh chan<- Event, err error) *Result {
	s.state = StateFailed
	result := s.result(o)
	result.Err = err

	o.Logger.Debug("run failed",
		"run", s.runID,
		"turns", s.turns,
		"status", ai.StatusCodeOf(err),
		"error", err)
	emitFinal(s.caller, eventCh, Event{Type: EventRunError, RunID: s.runID, Turn: s.turns, State: s.state, Result: result, Error: err})
	return result
}

func (a *Agent) finish(s *loopState, o *Options, eventCh chan<- Event) *Result {
	result := s.result(o)
	emitFinal(s.caller, eventCh, Event{Type: EventRunEnd, RunID: s.runID, Turn: s.turns, State: s.state, Response: result.Response, Result: result, Message: string(s.state)})
	return result
}

func (s *loopState) record(resp *ai.Response) {
	s.responses = append(s.responses, resp)
	s.usage = s.usage.Add(resp.UsageOrZero())
}

// remainingCalls returns how many more calls the tool-call budget allows,
// or -1 when calls are not limited individually.
func (s *loopState) remainingCalls(o *Options) int {
	if o.Budget != BudgetToolCalls || o.MaxToolCalls <= 0 {
		return -1
	}
	return max(o.MaxToolCalls-s.toolCalls, 0)
}

func (s *loopState) budgetReached(o *Options) bool {
	if o.MaxToolCalls <= 0 {
		return false
	}
	if o.Budget == BudgetToolCalls {
		return s.toolCalls >= o.MaxToolCalls
	}
	return s.turns >= o.MaxToolCalls
}

func (s *loopState) result(o *Options) *Result {
	r := &Result{
		RunID:          s.runID,
		Mode:           o.Mode,
		State:          s.state,
		Responses:      s.responses,
		Turns:          s.turns,
		ToolCalls:      s.toolCalls,
		TotalUsage:     s.usage,
		Context:        s.context.Items(),
		BudgetExceeded: s.state == StateBudgetExceeded,
		PendingCalls:   s.pending,
	}
	if n := len(s.responses); n > 0 {
		r.Response = s.responses[n-1]
	}
	return r
}
