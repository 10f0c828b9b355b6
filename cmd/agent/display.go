package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	ai "github.com/spetersoncode/openresponses"
	"github.com/spetersoncode/openresponses/agent"
)

const (
	previewLimit = 200
	ruleWidth    = 60
)

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// printTrace writes every item the run produced, in order, followed by a
// summary and the final text.
func printTrace(w io.Writer, r *agent.Result) {
	rule := strings.Repeat("=", ruleWidth)
	items := producedItems(r.Context)

	model := ""
	if r.Response != nil {
		model = r.Response.Model
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "EXECUTION TRACE - %s\n", r.RunID)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Model: %s\n", model)
	fmt.Fprintf(w, "Mode: %s | State: %s | Turns: %d\n", r.Mode, r.State, r.Turns)
	fmt.Fprintf(w, "Total output items: %d\n", len(items))
	fmt.Fprintf(w, "Tokens: %d in / %d out\n", r.TotalUsage.InputTokens, r.TotalUsage.OutputTokens)
	fmt.Fprintln(w)

	calls := 0
	for i, item := range items {
		prefix := fmt.Sprintf("[%d/%d]", i+1, len(items))
		switch it := item.(type) {
		case *ai.Reasoning:
			c := ai.Classify(it)
			text := c.Text
			if text == "" {
				text = "[encrypted reasoning]"
			}
			fmt.Fprintf(w, "%s [REASONING] (%s)\n", prefix, c.Level)
			fmt.Fprintf(w, "    %s\n", truncate(text, previewLimit))
		case *ai.FunctionCall:
			calls++
			fmt.Fprintf(w, "%s [TOOL CALL #%d]\n", prefix, calls)
			fmt.Fprintf(w, "    Function: %s\n", it.Name)
			fmt.Fprintf(w, "    Arguments: %s\n", string(it.Arguments))
		case *ai.FunctionCallOutput:
			fmt.Fprintf(w, "%s [TOOL RESULT] %s\n", prefix, it.CallID)
			fmt.Fprintf(w, "    %s\n", truncate(it.Output, previewLimit))
		case *ai.Message:
			fmt.Fprintf(w, "%s [FINAL RESPONSE]\n", prefix)
			fmt.Fprintf(w, "    %s\n", it.Text())
		default:
			fmt.Fprintf(w, "%s [%s]\n", prefix, strings.ToUpper(string(item.Type())))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "SUMMARY: %d tool calls made\n", r.ToolCalls)
	printReasoning(w, r.Responses)
	if r.BudgetExceeded {
		fmt.Fprintf(w, "Budget exhausted with %d calls pending\n", len(r.PendingCalls))
	}
	if r.Err != nil {
		fmt.Fprintf(w, "Error: %v\n", r.Err)
	}
	fmt.Fprintln(w, rule)

	fmt.Fprintln(w, "\n--- Final Output Text ---")
	fmt.Fprintln(w, r.Text())
}

// producedItems drops the user messages that seeded the context.
func producedItems(items []ai.Item) []ai.Item {
	out := make([]ai.Item, 0, len(items))
	for _, item := range items {
		if m, ok := item.(*ai.Message); ok && m.Role == ai.RoleUser {
			continue
		}
		out = append(out, item)
	}
	return out
}

func printReasoning(w io.Writer, responses []*ai.Response) {
	best := ai.ReasoningAnalysis{Level: ai.ReasoningNone}
	tokens := 0
	for _, resp := range responses {
		a := ai.AnalyzeReasoning(resp)
		tokens += a.EstimatedTokens
		if len(a.Items) > 0 && (len(best.Items) == 0 || a.Level > best.Level) {
			best = a
		}
	}
	if len(best.Items) == 0 {
		fmt.Fprintln(w, "Reasoning: none")
		return
	}
	fmt.Fprintf(w, "Reasoning: %s (~%d tokens). %s\n", best.Level, tokens, best.Details)
}

// printComparison writes one summary row per label, sorted.
func printComparison(w io.Writer, results map[string]agent.Comparison) {
	rule := strings.Repeat("=", ruleWidth+10)

	labels := make([]string, 0, len(results))
	for label := range results {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "COMPARISON SUMMARY")
	fmt.Fprintln(w, rule)
	for _, label := range labels {
		c := results[label]
		name := suffixOf(label)
		if c.Err != nil {
			fmt.Fprintf(w, "%-12s | FAILED  | %v\n", name, c.Err)
			continue
		}
		fmt.Fprintf(w, "%-12s | SUCCESS | %dms | %d tokens | %d tool calls\n",
			name, c.Duration.Milliseconds(), c.Result.TotalUsage.Total(), c.Result.ToolCalls)
	}
}

func suffixOf(model string) string {
	if i := strings.LastIndex(model, ":"); i >= 0 && i < len(model)-1 {
		return model[i+1:]
	}
	return "default"
}
