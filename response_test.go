package openresponses

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
	"id": "resp_123",
	"object": "response",
	"model": "moonshotai/Kimi-K2-Instruct-0905:groq",
	"status": "completed",
	"output": [
		{"type":"reasoning","id":"rs_1","content":[{"type":"reasoning_text","text":"I should add."}]},
		{"type":"function_call","id":"fc_1","name":"add","arguments":"{\"a\":1,\"b\":2}","call_id":"call_a"},
		{"type":"function_call","id":"fc_2","name":"add","arguments":"{\"a\":3,\"b\":4}","call_id":"call_b"},
		{"type":"function_call_output","call_id":"call_a","output":"3"}
	],
	"usage": {"input_tokens": 12, "output_tokens": 30, "total_tokens": 42}
}`

func TestDecodeResponse(t *testing.T) {
	resp, err := DecodeResponse([]byte(sampleResponse))
	require.NoError(t, err)

	assert.Equal(t, "resp_123", resp.ID)
	assert.Equal(t, "moonshotai/Kimi-K2-Instruct-0905:groq", resp.Model)
	assert.Equal(t, "completed", resp.Status)
	require.Len(t, resp.Output, 4)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, uint(12), resp.Usage.InputTokens)
	assert.Equal(t, uint(42), resp.Usage.Total())
	assert.Nil(t, resp.OutputText)

	assert.Len(t, resp.FunctionCalls(), 2)
	assert.Len(t, resp.FunctionCallOutputs(), 1)
	assert.Len(t, resp.ReasoningItems(), 1)
	assert.False(t, resp.HasMessage())
}

func TestDecodeResponse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing id", `{"model":"m","output":[]}`, "id"},
		{"missing model", `{"id":"r","output":[]}`, "model"},
		{"missing output", `{"id":"r","model":"m"}`, "output"},
		{"id of wrong type", `{"id":5,"model":"m","output":[]}`, "id"},
		{"output not an array", `{"id":"r","model":"m","output":{}}`, "output"},
		{"negative usage", `{"id":"r","model":"m","output":[],"usage":{"input_tokens":-1,"output_tokens":0}}`, "usage.input_tokens"},
		{"bad item", `{"id":"r","model":"m","output":[{"type":"function_call","name":"f"}]}`, "output[0].call_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeResponse([]byte(tt.body))
			require.Error(t, err)

			var de *DecodeError
			require.True(t, errors.As(err, &de), "expected DecodeError, got %T", err)
			assert.Equal(t, tt.field, de.Field)
		})
	}

	t.Run("not json", func(t *testing.T) {
		_, err := DecodeResponse([]byte(`<html>bad gateway</html>`))
		var de *DecodeError
		assert.True(t, errors.As(err, &de))
	})
}

func TestResponse_PendingCalls(t *testing.T) {
	resp, err := DecodeResponse([]byte(sampleResponse))
	require.NoError(t, err)

	t.Run("excludes calls answered in the same response", func(t *testing.T) {
		pending := resp.PendingCalls(nil)
		require.Len(t, pending, 1)
		assert.Equal(t, "call_b", pending[0].CallID)
	})

	t.Run("excludes resolved calls", func(t *testing.T) {
		assert.Empty(t, resp.PendingCalls(map[string]bool{"call_b": true}))
	})
}

func TestResponse_Text(t *testing.T) {
	t.Run("prefers output_text", func(t *testing.T) {
		text := "from server"
		resp := &Response{OutputText: &text, Output: Items{&Message{Content: str("ignored")}}}
		assert.Equal(t, "from server", resp.Text())
	})

	t.Run("joins message content", func(t *testing.T) {
		resp := &Response{Output: Items{
			&Message{Content: str("one")},
			&Reasoning{Content: str("hidden")},
			&Message{Content: str("two")},
		}}
		assert.Equal(t, "one\ntwo", resp.Text())
		assert.True(t, resp.HasMessage())
	})
}

func TestUsage(t *testing.T) {
	a := Usage{InputTokens: 1, OutputTokens: 2}
	b := Usage{InputTokens: 10, OutputTokens: 20}

	sum := a.Add(b)
	assert.Equal(t, Usage{InputTokens: 11, OutputTokens: 22}, sum)
	assert.Equal(t, Usage{InputTokens: 1, OutputTokens: 2}, a, "Add must not mutate the receiver")
	assert.Equal(t, uint(33), sum.Total())

	var nilResp *Response
	assert.Equal(t, Usage{}, nilResp.UsageOrZero())
}
