// Command agent runs a multi-step tool-calling task against an Open Responses
// endpoint and prints the execution trace.
//
// Configuration comes from the environment (or a .env file):
//
//	HF_TOKEN / API_KEY   credential for the resolved endpoint
//	MODEL                model identifier, e.g. moonshotai/Kimi-K2-Instruct-0905:groq
//	ROUTING              suffix (default) or provider
//	PROVIDER             endpoint name for provider routing
//	MODE                 client (default) or server
//	MAX_TOOL_CALLS       loop budget (default 10)
//	TIMEOUT              per-request timeout, e.g. 90s
//	REASONING_EFFORT     low, medium, or high
//	RETRY_ATTEMPTS       attempts per request (default 1)
//	LOG_LEVEL            debug, info, warn, or error
//
// Usage:
//
//	go run ./cmd/agent
//	go run ./cmd/agent -task "Search for the hiring plan"
//	go run ./cmd/agent -compare moonshotai/Kimi-K2-Instruct-0905:groq,meta-llama/Llama-3.1-70B-Instruct:together
//	go run ./cmd/agent -stream -confirm send_email
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spetersoncode/openresponses/agent"
	"github.com/spetersoncode/openresponses/client"
	"github.com/spetersoncode/openresponses/internal/demo"
	"github.com/spetersoncode/openresponses/retry"
)

func main() {
	task := flag.String("task", demo.Task, "task for the agent")
	compare := flag.String("compare", "", "comma-separated models to run the task on concurrently")
	stream := flag.Bool("stream", false, "print loop events as they happen")
	confirm := flag.String("confirm", "", "comma-separated tools that need approval on stdin")
	flag.Parse()

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []agent.Option{
		agent.WithMode(cfg.Mode),
		agent.WithMaxToolCalls(cfg.MaxToolCalls),
		agent.WithLogger(logger),
	}
	if *confirm != "" {
		opts = append(opts,
			agent.WithApprovalRequired(strings.Split(*confirm, ",")...),
			agent.WithApprover(consoleApprovals(os.Stdin, os.Stdout).Approver()),
		)
	}

	if *compare != "" {
		os.Exit(runCompare(ctx, cfg, logger, strings.Split(*compare, ","), *task, opts))
	}

	a, err := newAgent(cfg, cfg.Model, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "client error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("[MODEL] %s\n", cfg.Model)
	fmt.Printf("[INPUT] %s\n", truncate(strings.TrimSpace(*task), 100))

	var result *agent.Result
	if *stream {
		result = runStreaming(ctx, a, *task, opts)
	} else {
		result, _ = a.Run(ctx, *task, opts...)
	}

	if result == nil {
		fmt.Fprintln(os.Stderr, "run ended without a result")
		os.Exit(1)
	}
	printTrace(os.Stdout, result)
	if result.Err != nil {
		os.Exit(1)
	}
}

func newAgent(cfg *Config, model string, logger *slog.Logger) (*agent.Agent, error) {
	aiCfg := cfg.AI()
	aiCfg.Model = model

	clientOpts := []client.Option{client.WithLogger(logger)}
	if cfg.RetryAttempts > 1 {
		rc := retry.DefaultConfig()
		rc.MaxAttempts = cfg.RetryAttempts
		clientOpts = append(clientOpts, client.WithRetry(rc))
	}

	c, err := client.New(aiCfg, clientOpts...)
	if err != nil {
		return nil, err
	}
	return agent.New(c, demo.Registry()), nil
}

func runStreaming(ctx context.Context, a *agent.Agent, task string, opts []agent.Option) *agent.Result {
	var result *agent.Result
	for event := range a.RunStream(ctx, task, opts...) {
		switch event.Type {
		case agent.EventTurnStart:
			fmt.Printf("-> turn %d\n", event.Turn)
		case agent.EventToolCall:
			fmt.Printf("   call %s(%s)\n", event.Call.Name, string(event.Call.Arguments))
		case agent.EventToolResult:
			fmt.Printf("   result %s\n", truncate(event.Output.Output, 80))
		case agent.EventRunEnd, agent.EventRunError:
			result = event.Result
		}
	}
	return result
}

func runCompare(ctx context.Context, cfg *Config, logger *slog.Logger, models []string, task string, opts []agent.Option) int {
	agents := make(map[string]*agent.Agent, len(models))
	for _, model := range models {
		model = strings.TrimSpace(model)
		if model == "" {
			continue
		}
		a, err := newAgent(cfg, model, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "client error for %s: %v\n", model, err)
			return 1
		}
		agents[model] = a
	}

	fmt.Printf("Comparing %d models\n\n", len(agents))
	results, err := agent.Compare(ctx, task, agents, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "comparison interrupted: %v\n", err)
	}

	for _, model := range models {
		if c, ok := results[strings.TrimSpace(model)]; ok && c.Result != nil {
			printTrace(os.Stdout, c.Result)
			fmt.Println()
		}
	}
	printComparison(os.Stdout, results)
	return 0
}
