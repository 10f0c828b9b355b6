package agent

import (
	"context"
	"fmt"

	"github.com/spetersoncode/openresponses/tool"
)

// ToolArgs is the default argument type for agent tools.
type ToolArgs struct {
	Task string `json:"task" jsonschema:"description=The task for the sub-agent to complete"`
}

// ToolOption configures an agent tool.
type ToolOption func(*toolConfig)

type toolConfig struct {
	description  string
	maxToolCalls int
	agentOptions []Option
}

// WithToolDescription sets a custom description for the agent tool.
func WithToolDescription(desc string) ToolOption {
	return func(c *toolConfig) {
		c.description = desc
	}
}

// WithToolMaxToolCalls sets the budget of the sub-agent. Default is 5.
func WithToolMaxToolCalls(n int) ToolOption {
	return func(c *toolConfig) {
		c.maxToolCalls = n
	}
}

// WithToolAgentOptions passes options through to the sub-agent run.
func WithToolAgentOptions(opts ...Option) ToolOption {
	return func(c *toolConfig) {
		c.agentOptions = append(c.agentOptions, opts...)
	}
}

// NewTool wraps an agent as a callable tool, so one agent can delegate a
// task to another. The tool takes ToolArgs and returns the sub-agent's
// final text.
//
// Example:
//
//	research := agent.New(client, researchTools)
//	mainRegistry.Add(agent.NewTool("research", research,
//	    agent.WithToolDescription("Delegate research to a specialized agent"),
//	    agent.WithToolMaxToolCalls(5),
//	))
func NewTool(name string, a *Agent, opts ...ToolOption) tool.Registration {
	return NewToolFunc(name, a, "", func(args ToolArgs) string { return args.Task }, opts...)
}

// NewToolFunc wraps an agent as a tool with typed arguments. toTask turns
// the decoded arguments into the sub-agent's task. An empty description
// defaults to "Invoke the <name> agent".
//
// Example:
//
//	type ReportArgs struct {
//	    Topic string `json:"topic" jsonschema:"description=Report topic"`
//	}
//
//	mainRegistry.Add(agent.NewToolFunc("report", writer, "Write a report",
//	    func(args ReportArgs) string {
//	        return "Write a short report about " + args.Topic
//	    },
//	))
func NewToolFunc[T any](name string, a *Agent, description string, toTask func(args T) string, opts ...ToolOption) tool.Registration {
	cfg := &toolConfig{
		description:  description,
		maxToolCalls: 5,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.description == "" {
		cfg.description = fmt.Sprintf("Invoke the %s agent", name)
	}

	agentOpts := append([]Option{WithMaxToolCalls(cfg.maxToolCalls)}, cfg.agentOptions...)

	t, h := tool.MustBind(name, cfg.description, func(ctx context.Context, args T) (string, error) {
		result, err := a.Run(ctx, toTask(args), agentOpts...)
		if err != nil {
			return "", fmt.Errorf("agent execution failed: %w", err)
		}
		if result.Response == nil {
			return "", fmt.Errorf("agent returned no response")
		}
		return result.Text(), nil
	})
	return tool.Registration{Tool: t, Handler: h}
}
