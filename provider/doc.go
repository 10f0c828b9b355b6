// Package provider maps logical provider names and model identifiers to
// responses endpoints.
//
// Two routing strategies are available and are always selected explicitly:
//
//   - [StaticResolver] looks a provider name up in a fixed [Registry].
//   - [SuffixResolver] sends every model to a single router endpoint. The
//     model keeps its ":suffix" (for example "model:groq") and the remote
//     router performs the provider dispatch.
//
// Use [NewResolver] to pick a strategy from a routing mode:
//
//	r, err := provider.NewResolver(ai.RoutingSuffix, provider.DefaultRegistry())
//	if err != nil {
//	    return err
//	}
//	ep, err := r.Resolve("moonshotai/Kimi-K2-Instruct-0905:groq")
//
// Endpoints are immutable values built once when the registry is created.
package provider
