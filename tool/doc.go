// Package tool provides the tool dispatcher used by agent loops.
//
// A [Registry] maps tool names to handlers. The agent advertises
// [Registry.Tools] to the model and dispatches each function_call item
// through [Registry.Execute], which answers it with a function_call_output
// keyed by the same call_id.
//
// # Basic Usage
//
// Define tool arguments as a struct, then register a typed handler:
//
//	type AddArgs struct {
//	    A float64 `json:"a" jsonschema:"description=First operand"`
//	    B float64 `json:"b" jsonschema:"description=Second operand"`
//	}
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("add", "Add two numbers",
//	        func(ctx context.Context, args AddArgs) (string, error) {
//	            return strconv.FormatFloat(args.A+args.B, 'f', -1, 64), nil
//	        }),
//	)
//
// Schemas are generated with invopop/jsonschema. Fields without omitempty
// are required; use the jsonschema tag for descriptions and enums.
//
// # Failures
//
// A call to an unregistered tool returns *ErrToolNotFound. A handler that
// returns an error or panics does not fail the call: its error is rendered
// as "error: <message>" and sent back to the model as the tool's output.
package tool
