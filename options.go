package openresponses

import "time"

// Options contains configuration for a single responses request.
type Options struct {
	Instructions    string
	Tools           []Tool
	ToolChoice      ToolChoice
	MaxToolCalls    int
	ReasoningEffort ReasoningEffort
	Timeout         time.Duration
}

// Option is a functional option for configuring requests.
type Option func(*Options)

// WithInstructions sets the instruction (system) prompt.
func WithInstructions(s string) Option {
	return func(o *Options) {
		o.Instructions = s
	}
}

// WithTools sets the tools available to the model.
func WithTools(tools []Tool) Option {
	return func(o *Options) {
		o.Tools = tools
	}
}

// WithToolChoice sets how the model should use tools.
// Defaults to ToolChoiceAuto when tools are present.
func WithToolChoice(choice ToolChoice) Option {
	return func(o *Options) {
		o.ToolChoice = choice
	}
}

// WithMaxToolCalls sets the max_tool_calls hint sent with tools.
func WithMaxToolCalls(n int) Option {
	return func(o *Options) {
		o.MaxToolCalls = n
	}
}

// WithReasoningEffort requests a reasoning effort level.
func WithReasoningEffort(effort ReasoningEffort) Option {
	return func(o *Options) {
		o.ReasoningEffort = effort
	}
}

// WithTimeout bounds one HTTP round trip. It does not bound an agent loop.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// ApplyOptions applies functional options to an Options struct.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// EffectiveTimeout returns the configured timeout, or the default for a
// request with or without tools.
func (o *Options) EffectiveTimeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	if len(o.Tools) > 0 {
		return DefaultToolTimeout
	}
	return DefaultTimeout
}
