package openresponses

import (
	"encoding/json"
	"strings"
)

// Usage contains token consumption for one response.
type Usage struct {
	InputTokens  uint `json:"input_tokens"`
	OutputTokens uint `json:"output_tokens"`
}

// Total returns the sum of input and output tokens.
func (u Usage) Total() uint {
	return u.InputTokens + u.OutputTokens
}

// Add returns the sum of u and o.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + o.InputTokens,
		OutputTokens: u.OutputTokens + o.OutputTokens,
	}
}

// Response is a decoded response from the responses endpoint.
// It is owned by the call that produced it and is not mutated after decoding.
type Response struct {
	ID         string
	Model      string
	Status     string
	Output     Items
	OutputText *string
	Usage      *Usage
}

// DecodeResponse decodes a response body. The id, model and output fields are
// required; a missing or mistyped field returns a *DecodeError.
func DecodeResponse(body []byte) (*Response, error) {
	var w struct {
		ID         *string `json:"id"`
		Model      *string `json:"model"`
		Status     string  `json:"status"`
		Output     *Items  `json:"output"`
		OutputText *string `json:"output_text"`
		Usage      *Usage  `json:"usage"`
	}
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, wrapDecode("", err)
	}
	switch {
	case w.ID == nil:
		return nil, &DecodeError{Field: "id", Msg: "missing required field"}
	case w.Model == nil:
		return nil, &DecodeError{Field: "model", Msg: "missing required field"}
	case w.Output == nil:
		return nil, &DecodeError{Field: "output", Msg: "missing required field"}
	}
	return &Response{
		ID:         *w.ID,
		Model:      *w.Model,
		Status:     w.Status,
		Output:     *w.Output,
		OutputText: w.OutputText,
		Usage:      w.Usage,
	}, nil
}

// UsageOrZero returns the response usage, or a zero Usage when absent.
func (r *Response) UsageOrZero() Usage {
	if r == nil || r.Usage == nil {
		return Usage{}
	}
	return *r.Usage
}

// FunctionCalls returns the function call items in output order.
func (r *Response) FunctionCalls() []*FunctionCall {
	return itemsOf[*FunctionCall](r.Output)
}

// FunctionCallOutputs returns the function call output items in output order.
func (r *Response) FunctionCallOutputs() []*FunctionCallOutput {
	return itemsOf[*FunctionCallOutput](r.Output)
}

// Messages returns the message items in output order.
func (r *Response) Messages() []*Message {
	return itemsOf[*Message](r.Output)
}

// ReasoningItems returns the reasoning items in output order.
func (r *Response) ReasoningItems() []*Reasoning {
	return itemsOf[*Reasoning](r.Output)
}

// HasMessage reports whether the output contains at least one message.
func (r *Response) HasMessage() bool {
	for _, item := range r.Output {
		if _, ok := item.(*Message); ok {
			return true
		}
	}
	return false
}

// PendingCalls returns the function calls whose call_id is not answered by a
// function_call_output in the same response nor listed in resolved.
func (r *Response) PendingCalls(resolved map[string]bool) []*FunctionCall {
	answered := make(map[string]bool)
	for _, out := range r.FunctionCallOutputs() {
		answered[out.CallID] = true
	}
	var pending []*FunctionCall
	for _, call := range r.FunctionCalls() {
		if answered[call.CallID] || resolved[call.CallID] {
			continue
		}
		pending = append(pending, call)
	}
	return pending
}

// Text returns output_text when the server provided it, otherwise the
// concatenated content of all message items.
func (r *Response) Text() string {
	if r.OutputText != nil {
		return *r.OutputText
	}
	var parts []string
	for _, m := range r.Messages() {
		if m.Content != nil {
			parts = append(parts, *m.Content)
		}
	}
	return strings.Join(parts, "\n")
}

func itemsOf[T Item](items Items) []T {
	var out []T
	for _, item := range items {
		if v, ok := item.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
