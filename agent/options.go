package agent

import (
	"context"
	"log/slog"
	"slices"
	"time"

	ai "github.com/spetersoncode/openresponses"
	"github.com/spetersoncode/openresponses/store"
)

// Mode selects who drives the tool-calling loop.
type Mode string

const (
	// ModeClientDriven executes function calls locally and re-invokes the
	// model until it answers with a message or the budget is spent.
	ModeClientDriven Mode = "client"

	// ModeServerDriven sends a single request and lets the server run its
	// own loop. Calls the server leaves unanswered are returned to the caller.
	ModeServerDriven Mode = "server"
)

// ParseMode converts a mode name to a Mode. The empty string selects
// ModeClientDriven.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeClientDriven:
		return ModeClientDriven, nil
	case ModeServerDriven:
		return ModeServerDriven, nil
	}
	return "", &ai.ConfigError{Field: "mode", Msg: "must be client or server, got " + s}
}

// BudgetUnit selects what the loop budget counts.
type BudgetUnit string

const (
	// BudgetTurns counts completed tool turns (model call followed by tool
	// execution).
	BudgetTurns BudgetUnit = "turns"

	// BudgetToolCalls counts individual function calls executed.
	BudgetToolCalls BudgetUnit = "tool_calls"
)

// ApproverFunc is called before a function call is executed.
// It returns true to approve the call, or false with a reason to reject it.
// The rejection reason is sent back to the model as the call's output.
type ApproverFunc func(ctx context.Context, call *ai.FunctionCall) (approved bool, reason string)

// Options contains configuration for one agent run.
type Options struct {
	// Mode selects client- or server-driven execution. Default is ModeClientDriven.
	Mode Mode

	// MaxToolCalls is the loop budget. Set to 0 for unlimited (not
	// recommended). Default is ai.DefaultMaxToolCalls.
	MaxToolCalls int

	// Budget selects the budget unit. Default is BudgetTurns.
	Budget BudgetUnit

	// Timeout sets a deadline for the entire run.
	// A value of 0 means no timeout (context deadline applies).
	Timeout time.Duration

	// HandlerTimeout sets the timeout for each individual tool handler.
	// A value of 0 means no per-handler timeout. Default is 30 seconds.
	HandlerTimeout time.Duration

	// ParallelToolCalls enables concurrent execution of the calls of one
	// turn. Outputs keep call order either way. Default is true.
	ParallelToolCalls bool

	// Approver enables human-in-the-loop approval for function calls.
	// If nil, all calls are automatically approved.
	Approver ApproverFunc

	// ApprovalRequired specifies which tool names require approval.
	// If empty and Approver is set, all tools require approval.
	ApprovalRequired []string

	// Store persists the running context after every turn, keyed by run ID.
	Store store.Adapter

	// Logger receives loop diagnostics. Default discards.
	Logger *slog.Logger

	// RequestOptions are passed through to the Sender on every request.
	RequestOptions []ai.Option
}

// Option is a functional option for configuring agent execution.
type Option func(*Options)

// WithMode selects client- or server-driven execution.
func WithMode(m Mode) Option {
	return func(o *Options) {
		o.Mode = m
	}
}

// WithMaxToolCalls sets the loop budget.
// Default is ai.DefaultMaxToolCalls. Set to 0 for unlimited (not recommended).
func WithMaxToolCalls(n int) Option {
	return func(o *Options) {
		o.MaxToolCalls = n
	}
}

// WithBudget selects what the budget counts. Default is BudgetTurns.
func WithBudget(unit BudgetUnit) Option {
	return func(o *Options) {
		o.Budget = unit
	}
}

// WithTimeout sets a deadline for the entire run.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithHandlerTimeout sets the timeout for each individual tool handler.
// Default is 30 seconds. Set to 0 for no per-handler timeout.
func WithHandlerTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.HandlerTimeout = d
	}
}

// WithParallelToolCalls enables or disables concurrent tool execution.
// Default is true.
func WithParallelToolCalls(enabled bool) Option {
	return func(o *Options) {
		o.ParallelToolCalls = enabled
	}
}

// WithApprover sets the human-in-the-loop approval function.
func WithApprover(fn ApproverFunc) Option {
	return func(o *Options) {
		o.Approver = fn
	}
}

// WithApprovalRequired specifies which tools require approval.
// If not called but WithApprover is used, all tools require approval.
func WithApprovalRequired(tools ...string) Option {
	return func(o *Options) {
		o.ApprovalRequired = tools
	}
}

// WithStore persists the running context to adapter after every turn.
func WithStore(adapter store.Adapter) Option {
	return func(o *Options) {
		o.Store = adapter
	}
}

// WithLogger sets the logger for loop diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithRequestOptions passes options through to the Sender.
// These options are applied to every request made by the agent.
func WithRequestOptions(opts ...ai.Option) Option {
	return func(o *Options) {
		o.RequestOptions = append(o.RequestOptions, opts...)
	}
}

// WithInstructions is a convenience option to set the instructions of every request.
func WithInstructions(s string) Option {
	return func(o *Options) {
		o.RequestOptions = append(o.RequestOptions, ai.WithInstructions(s))
	}
}

// WithReasoningEffort is a convenience option to request a reasoning effort.
func WithReasoningEffort(effort ai.ReasoningEffort) Option {
	return func(o *Options) {
		o.RequestOptions = append(o.RequestOptions, ai.WithReasoningEffort(effort))
	}
}

// ApplyOptions applies functional options to an Options struct with defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		Mode:              ModeClientDriven,
		MaxToolCalls:      ai.DefaultMaxToolCalls,
		Budget:            BudgetTurns,
		HandlerTimeout:    30 * time.Second,
		ParallelToolCalls: true,
		Logger:            slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Options) requiresApproval(name string) bool {
	if o.Approver == nil {
		return false
	}
	if len(o.ApprovalRequired) == 0 {
		return true
	}
	return slices.Contains(o.ApprovalRequired, name)
}
