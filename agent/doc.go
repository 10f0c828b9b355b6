// Package agent runs the Open Responses tool-calling loop.
//
// An agent sends a task to the responses endpoint, executes the function
// calls the model asks for, feeds the outputs back and repeats until the
// model answers with a message, the budget is spent, or a request fails.
//
// # Basic Usage
//
// Create a registry, register tools with their handlers, then create an agent:
//
//	type WeatherArgs struct {
//	    Location string `json:"location" jsonschema:"description=City name"`
//	}
//
//	registry := tool.NewRegistry()
//	tool.MustRegisterFunc(registry, "get_weather", "Get current weather",
//	    func(ctx context.Context, args WeatherArgs) (string, error) {
//	        return fmt.Sprintf(`{"temp": 72, "location": %q}`, args.Location), nil
//	    },
//	)
//
//	c, err := client.New(cfg)
//	a := agent.New(c, registry)
//
//	result, err := a.Run(ctx, "What's the weather in Paris?", agent.WithMaxToolCalls(5))
//
// # Modes
//
// The mode is chosen by the caller, never inferred:
//
//   - ModeClientDriven (default): the agent executes calls locally and
//     re-invokes the model with the growing context.
//   - ModeServerDriven: one request; the server runs its own loop. Calls it
//     leaves unanswered end the run in StateHasFunctionCalls with
//     Result.PendingCalls set.
//
// # States
//
// A client-driven run moves through StateAwaitingModel,
// StateHasFunctionCalls and StateExecutingTools and stops in StateDone,
// StateBudgetExceeded or StateFailed. Reaching the budget is a controlled
// stop: Run returns the partial result and a nil error. Transport and
// decode errors fail the run at once; Run returns them with the partial
// result. Tool failures never stop the loop. They become output text the
// model can react to, including "Unknown tool: <name>" for calls to tools
// that are not registered.
//
// # Streaming Events
//
// Use RunStream() to receive events as the agent executes:
//
//	for e := range a.RunStream(ctx, task) {
//	    switch e.Type {
//	    case agent.EventToolCall:
//	        fmt.Printf("[Tool: %s]\n", e.Call.Name)
//	    case agent.EventRunEnd, agent.EventRunError:
//	        fmt.Println(e.State, e.Result.Text())
//	    }
//	}
//
// # Human-in-the-Loop Approval
//
// Use WithApprover to require approval before tool execution:
//
//	result, err := a.Run(ctx, task,
//	    agent.WithApprover(func(ctx context.Context, call *ai.FunctionCall) (bool, string) {
//	        fmt.Printf("Approve %s? (y/n): ", call.Name)
//	        var input string
//	        fmt.Scanln(&input)
//	        return input == "y", "User rejected"
//	    }),
//	)
//
// # Comparing Providers
//
// Compare runs one task on several agents concurrently; each run owns its
// own state.
//
//	results, err := agent.Compare(ctx, task, map[string]*agent.Agent{
//	    "openai":    agent.New(openaiClient, registry),
//	    "anthropic": agent.New(anthropicClient, registry),
//	})
package agent
