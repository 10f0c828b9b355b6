package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	ai "github.com/spetersoncode/openresponses"
	"github.com/spetersoncode/openresponses/agent"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func sampleResult() *agent.Result {
	final := &ai.Response{
		ID:     "resp_2",
		Model:  "moonshotai/Kimi-K2-Instruct-0905:groq",
		Status: "completed",
		Output: ai.Items{&ai.Message{Role: ai.RoleAssistant, Content: strPtr("Report sent.")}},
		Usage:  &ai.Usage{InputTokens: 50, OutputTokens: 10},
	}
	first := &ai.Response{
		ID: "resp_1",
		Output: ai.Items{
			&ai.Reasoning{Content: strPtr("I should search first.")},
			&ai.FunctionCall{CallID: "c1", Name: "search_documents", Arguments: json.RawMessage(`{"query":"Q3"}`)},
		},
		Usage: &ai.Usage{InputTokens: 20, OutputTokens: 5},
	}

	return &agent.Result{
		RunID:      "run-1",
		Mode:       agent.ModeClientDriven,
		State:      agent.StateDone,
		Response:   final,
		Responses:  []*ai.Response{first, final},
		Turns:      1,
		ToolCalls:  1,
		TotalUsage: ai.Usage{InputTokens: 70, OutputTokens: 15},
		Context: []ai.Item{
			ai.NewUserMessage("do the task"),
			first.Output[0],
			first.Output[1],
			ai.NewFunctionCallOutput("c1", strings.Repeat("x", 250)),
			final.Output[0],
		},
	}
}

func TestPrintTrace(t *testing.T) {
	var buf bytes.Buffer
	printTrace(&buf, sampleResult())
	out := buf.String()

	assert.Contains(t, out, "EXECUTION TRACE - run-1")
	assert.Contains(t, out, "Model: moonshotai/Kimi-K2-Instruct-0905:groq")
	assert.Contains(t, out, "Total output items: 4")
	assert.Contains(t, out, "Tokens: 70 in / 15 out")
	assert.Contains(t, out, "[1/4] [REASONING] (raw)")
	assert.Contains(t, out, "[2/4] [TOOL CALL #1]")
	assert.Contains(t, out, "Function: search_documents")
	assert.Contains(t, out, `Arguments: {"query":"Q3"}`)
	assert.Contains(t, out, strings.Repeat("x", 200)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 201))
	assert.Contains(t, out, "[4/4] [FINAL RESPONSE]")
	assert.Contains(t, out, "SUMMARY: 1 tool calls made")
	assert.Contains(t, out, "Reasoning: raw (~5 tokens)")
	assert.True(t, strings.HasSuffix(out, "--- Final Output Text ---\nReport sent.\n"))
}

func TestPrintTrace_BudgetAndUnknown(t *testing.T) {
	r := sampleResult()
	r.State = agent.StateBudgetExceeded
	r.BudgetExceeded = true
	r.PendingCalls = []*ai.FunctionCall{{CallID: "c9", Name: "send_email"}}
	r.Err = errors.New("boom")
	r.Context = append(r.Context, &ai.Unknown{ItemType: "web_search_call"})

	var buf bytes.Buffer
	printTrace(&buf, r)
	out := buf.String()

	assert.Contains(t, out, "[WEB_SEARCH_CALL]")
	assert.Contains(t, out, "Budget exhausted with 1 calls pending")
	assert.Contains(t, out, "Error: boom")
}

func TestPrintComparison(t *testing.T) {
	results := map[string]agent.Comparison{
		"meta-llama/Llama-3.1-70B-Instruct:together": {
			Result:   &agent.Result{TotalUsage: ai.Usage{InputTokens: 30, OutputTokens: 12}, ToolCalls: 4},
			Duration: 1500 * time.Millisecond,
		},
		"moonshotai/Kimi-K2-Instruct-0905:groq": {
			Result: &agent.Result{},
			Err:    errors.New("status 503"),
		},
	}

	var buf bytes.Buffer
	printComparison(&buf, results)
	out := buf.String()

	assert.Contains(t, out, "together     | SUCCESS | 1500ms | 42 tokens | 4 tool calls")
	assert.Contains(t, out, "groq         | FAILED  | status 503")
	assert.Less(t, strings.Index(out, "together"), strings.Index(out, "groq"))
}

func TestSuffixOf(t *testing.T) {
	assert.Equal(t, "groq", suffixOf("moonshotai/Kimi-K2-Instruct-0905:groq"))
	assert.Equal(t, "default", suffixOf("gpt-4o"))
	assert.Equal(t, "default", suffixOf("model:"))
}
