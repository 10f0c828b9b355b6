package provider

import (
	"fmt"
	"strings"

	ai "github.com/spetersoncode/openresponses"
)

// Resolver maps a routing target to an endpoint.
type Resolver interface {
	Resolve(target string) (Endpoint, error)
}

// StaticResolver resolves provider names against a fixed registry.
type StaticResolver struct {
	Registry *Registry
}

// Resolve looks name up in the registry.
func (s StaticResolver) Resolve(name string) (Endpoint, error) {
	return s.Registry.Lookup(name)
}

// SuffixResolver routes every model identifier to one router endpoint.
// The model string, including any ":suffix", is passed through untouched;
// the router picks the backing provider.
type SuffixResolver struct {
	Router Endpoint
}

// Resolve returns the router endpoint for model.
func (s SuffixResolver) Resolve(model string) (Endpoint, error) {
	if model == "" {
		return Endpoint{}, fmt.Errorf("provider: suffix routing requires a model identifier")
	}
	return s.Router, nil
}

// NewResolver returns the strategy for mode. RoutingProvider resolves
// against reg; RoutingSuffix ignores reg and uses [Router].
func NewResolver(mode ai.RoutingMode, reg *Registry) (Resolver, error) {
	switch mode {
	case ai.RoutingProvider, "":
		if reg == nil {
			return nil, &ai.ConfigError{Field: "routing", Msg: "provider routing requires a registry"}
		}
		return StaticResolver{Registry: reg}, nil
	case ai.RoutingSuffix:
		return SuffixResolver{Router: Router()}, nil
	default:
		return nil, &ai.ConfigError{Field: "routing", Msg: fmt.Sprintf("unknown mode %q", mode)}
	}
}

// ResolveConfig resolves the endpoint for cfg using the strategy its Routing
// field selects. Resolution failures are returned as *ai.ConfigError wrapping
// the underlying cause, such as *UnknownProviderError.
func ResolveConfig(cfg ai.Config, reg *Registry) (Endpoint, error) {
	r, err := NewResolver(cfg.Routing, reg)
	if err != nil {
		return Endpoint{}, err
	}

	target, field := cfg.Provider.String(), "provider"
	if cfg.Routing == ai.RoutingSuffix {
		target, field = cfg.Model, "model"
	}

	ep, err := r.Resolve(target)
	if err != nil {
		return Endpoint{}, &ai.ConfigError{Field: field, Err: err}
	}
	return ep, nil
}

// SplitModelSuffix splits "model:suffix" at the last colon.
// ok is false when model carries no suffix.
func SplitModelSuffix(model string) (base, suffix string, ok bool) {
	i := strings.LastIndex(model, ":")
	if i <= 0 || i == len(model)-1 {
		return model, "", false
	}
	return model[:i], model[i+1:], true
}

// RouterProvider describes a provider reachable through the router by suffix.
type RouterProvider struct {
	Suffix       string
	Name         string
	Description  string
	ExampleModel string
}

// RouterProviders lists the router suffixes known to work. The router may
// accept others; this table is informational.
var RouterProviders = []RouterProvider{
	{Suffix: "groq", Name: "Groq", Description: "Fast inference provider", ExampleModel: "moonshotai/Kimi-K2-Instruct-0905:groq"},
	{Suffix: "together", Name: "Together AI", Description: "Open weight model specialist", ExampleModel: "meta-llama/Llama-3.1-70B-Instruct:together"},
	{Suffix: "nebius", Name: "Nebius AI", Description: "European infrastructure", ExampleModel: "meta-llama/Llama-3.1-70B-Instruct:nebius"},
	{Suffix: "auto", Name: "Auto", Description: "Automatic provider selection", ExampleModel: "meta-llama/Llama-3.1-70B-Instruct:auto"},
}

// LookupRouterProvider returns the table entry for suffix.
func LookupRouterProvider(suffix string) (RouterProvider, bool) {
	for _, p := range RouterProviders {
		if p.Suffix == suffix {
			return p, true
		}
	}
	return RouterProvider{}, false
}
