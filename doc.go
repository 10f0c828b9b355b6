// Package openresponses provides a provider-agnostic client model for the
// Open Responses protocol: a single HTTP endpoint that takes a model, an
// instruction prompt, an input and optional tool definitions, and returns an
// ordered sequence of typed output items plus usage.
//
// The package is conventionally imported as ai:
//
//	import ai "github.com/spetersoncode/openresponses"
//
// # Items
//
// A response's output is a sequence of [Item] values. The set of variants is
// closed: [*Reasoning], [*Message], [*FunctionCall], [*FunctionCallOutput],
// and [*Unknown] for item types this package does not recognize. Items keep
// their original order, which reflects the order of model actions.
//
//	resp, err := ai.DecodeResponse(body)
//	if err != nil {
//	    return err
//	}
//	for _, item := range resp.Output {
//	    switch it := item.(type) {
//	    case *ai.Message:
//	        fmt.Println(it.Text())
//	    case *ai.FunctionCall:
//	        fmt.Printf("%s(%s)\n", it.Name, it.Arguments)
//	    }
//	}
//
// # Reasoning Visibility
//
// Providers expose model reasoning at different levels. [Classify] assigns
// each item a [ReasoningLevel] (raw, summary, encrypted or none) and
// [AnalyzeReasoning] reports the highest level observed in a response along
// with an approximate token count.
//
// # Related Packages
//
//   - [github.com/spetersoncode/openresponses/provider]: endpoint registry and routing strategies
//   - [github.com/spetersoncode/openresponses/client]: sends one request and decodes the response
//   - [github.com/spetersoncode/openresponses/tool]: tool registry and dispatcher
//   - [github.com/spetersoncode/openresponses/agent]: multi-turn tool-calling loop
//   - [github.com/spetersoncode/openresponses/mcp]: Model Context Protocol interop
//   - [github.com/spetersoncode/openresponses/retry]: opt-in backoff for transient failures
//   - [github.com/spetersoncode/openresponses/store]: conversation context persistence
//
// # Error Handling
//
// Errors carry a category via [CategorizedError]. The domain errors are
// [*ConfigError], [*TransportError] and [*DecodeError]:
//
//	var te *ai.TransportError
//	if errors.As(err, &te) {
//	    log.Printf("status %d: %s", te.Status, te.Body)
//	}
//	if ai.IsTransient(err) {
//	    // retry later
//	}
package openresponses
