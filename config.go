package openresponses

import (
	"fmt"
	"time"
)

// Defaults applied when the corresponding Config field is zero.
const (
	// DefaultTimeout bounds one round trip without tools.
	DefaultTimeout = 60 * time.Second

	// DefaultToolTimeout bounds one round trip when tools are sent.
	DefaultToolTimeout = 120 * time.Second

	// DefaultMaxToolCalls is the agent loop budget.
	DefaultMaxToolCalls = 10

	// DefaultInstructions is used when no instructions are configured.
	DefaultInstructions = "You are a helpful assistant that completes tasks step by step."

	// DefaultRouterModel is a model identifier carrying a router suffix.
	DefaultRouterModel = "moonshotai/Kimi-K2-Instruct-0905:groq"
)

// ReasoningEffort is the requested reasoning effort level.
type ReasoningEffort string

const (
	ReasoningEffortLow    ReasoningEffort = "low"
	ReasoningEffortMedium ReasoningEffort = "medium"
	ReasoningEffortHigh   ReasoningEffort = "high"
)

// Valid reports whether e is one of the known effort levels.
func (e ReasoningEffort) Valid() bool {
	switch e {
	case ReasoningEffortLow, ReasoningEffortMedium, ReasoningEffortHigh:
		return true
	}
	return false
}

// RoutingMode selects how a Config is resolved to an endpoint.
type RoutingMode string

const (
	// RoutingProvider looks Config.Provider up in a static endpoint table.
	RoutingProvider RoutingMode = "provider"

	// RoutingSuffix sends every request to a single router endpoint that
	// dispatches on the ":suffix" of the model identifier.
	RoutingSuffix RoutingMode = "suffix"
)

// Config is the explicit configuration consumed by the client and agent
// packages. Nothing in those packages reads the process environment; the
// caller builds a Config once and passes it in.
type Config struct {
	// Provider names the endpoint for RoutingProvider. Ignored for RoutingSuffix.
	Provider Provider

	// APIKey authenticates against the resolved endpoint.
	APIKey string

	// Model is the model identifier, including any router suffix.
	Model string

	// MaxToolCalls is the agent loop budget. Default is DefaultMaxToolCalls.
	MaxToolCalls int

	// Timeout bounds one HTTP round trip. Zero selects DefaultTimeout or
	// DefaultToolTimeout depending on whether tools are sent.
	Timeout time.Duration

	// ReasoningEffort is sent as reasoning.effort when set.
	ReasoningEffort ReasoningEffort

	// Instructions is the default instruction prompt.
	Instructions string

	// Routing selects the resolution strategy. Default is RoutingProvider.
	Routing RoutingMode
}

// WithDefaults returns a copy of c with zero fields set to their defaults.
func (c Config) WithDefaults() Config {
	if c.Routing == "" {
		c.Routing = RoutingProvider
	}
	if c.MaxToolCalls == 0 {
		c.MaxToolCalls = DefaultMaxToolCalls
	}
	if c.Instructions == "" {
		c.Instructions = DefaultInstructions
	}
	return c
}

// Validate checks that required configuration is present.
// It returns a *ConfigError describing the first problem found.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return &ConfigError{Field: "api_key", Msg: "required"}
	}
	if c.Model == "" {
		return &ConfigError{Field: "model", Msg: "required"}
	}

	switch c.Routing {
	case "", RoutingProvider:
		if c.Provider == "" {
			return &ConfigError{Field: "provider", Msg: "required for provider routing"}
		}
	case RoutingSuffix:
	default:
		return &ConfigError{Field: "routing", Msg: fmt.Sprintf("unknown mode %q (must be provider or suffix)", c.Routing)}
	}

	if c.ReasoningEffort != "" && !c.ReasoningEffort.Valid() {
		return &ConfigError{Field: "reasoning_effort", Msg: fmt.Sprintf("unknown level %q (must be low, medium, or high)", c.ReasoningEffort)}
	}
	if c.MaxToolCalls < 0 {
		return &ConfigError{Field: "max_tool_calls", Msg: "must not be negative"}
	}
	if c.Timeout < 0 {
		return &ConfigError{Field: "timeout", Msg: "must not be negative"}
	}
	return nil
}

// RequestOptions returns the per-request options implied by c.
func (c Config) RequestOptions() []Option {
	var opts []Option
	if c.Instructions != "" {
		opts = append(opts, WithInstructions(c.Instructions))
	}
	if c.ReasoningEffort != "" {
		opts = append(opts, WithReasoningEffort(c.ReasoningEffort))
	}
	if c.MaxToolCalls > 0 {
		opts = append(opts, WithMaxToolCalls(c.MaxToolCalls))
	}
	if c.Timeout > 0 {
		opts = append(opts, WithTimeout(c.Timeout))
	}
	return opts
}
