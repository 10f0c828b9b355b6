package openresponses

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Input is the "input" field of a request: either plain text or an ordered
// sequence of items replayed as conversation context.
type Input struct {
	Text  string
	Items Items
}

// TextInput returns an input holding plain text.
func TextInput(text string) Input {
	return Input{Text: text}
}

// ItemsInput returns an input holding the given items in order.
func ItemsInput(items ...Item) Input {
	return Input{Items: items}
}

// IsEmpty reports whether the input has neither text nor items.
func (in Input) IsEmpty() bool {
	return in.Text == "" && len(in.Items) == 0
}

// MarshalJSON encodes items when present, otherwise the text.
func (in Input) MarshalJSON() ([]byte, error) {
	if len(in.Items) > 0 {
		return json.Marshal([]Item(in.Items))
	}
	return json.Marshal(in.Text)
}

// UnmarshalJSON accepts a string or an array of items.
func (in *Input) UnmarshalJSON(data []byte) error {
	v := gjson.ParseBytes(data)
	switch {
	case v.Type == gjson.String:
		*in = Input{Text: v.Str}
		return nil
	case v.IsArray():
		var items Items
		if err := items.UnmarshalJSON(data); err != nil {
			return err
		}
		*in = Input{Items: items}
		return nil
	default:
		return &DecodeError{Field: "input", Msg: "expected string or array, got " + v.Type.String()}
	}
}

// ReasoningConfig is the "reasoning" field of a request.
type ReasoningConfig struct {
	Effort ReasoningEffort `json:"effort"`
}

// Request is the JSON body posted to a responses endpoint.
type Request struct {
	Model        string           `json:"model"`
	Instructions string           `json:"instructions,omitempty"`
	Input        Input            `json:"input"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
	ToolChoice   ToolChoice       `json:"tool_choice,omitempty"`
	MaxToolCalls int              `json:"max_tool_calls,omitempty"`
	Reasoning    *ReasoningConfig `json:"reasoning,omitempty"`
}

// NewRequest builds a request for model and input from the given options.
// When tools are present and no tool choice is set, tool_choice defaults to "auto".
func NewRequest(model string, input Input, opts ...Option) (*Request, error) {
	return BuildRequest(model, input, ApplyOptions(opts...))
}

// BuildRequest is like NewRequest but takes already-applied options.
func BuildRequest(model string, input Input, o *Options) (*Request, error) {
	if model == "" {
		return nil, &ConfigError{Field: "model", Msg: "required"}
	}
	if input.IsEmpty() {
		return nil, ErrEmptyInput
	}

	req := &Request{
		Model:        model,
		Instructions: o.Instructions,
		Input:        input,
	}

	if len(o.Tools) > 0 {
		seen := make(map[string]bool, len(o.Tools))
		req.Tools = make([]ToolDefinition, 0, len(o.Tools))
		for _, t := range o.Tools {
			if seen[t.Name] {
				return nil, &ConfigError{Field: "tools", Msg: fmt.Sprintf("duplicate tool %q", t.Name)}
			}
			seen[t.Name] = true
			req.Tools = append(req.Tools, t.Definition())
		}
		req.ToolChoice = o.ToolChoice
		if req.ToolChoice == "" {
			req.ToolChoice = ToolChoiceAuto
		}
		req.MaxToolCalls = o.MaxToolCalls
	}

	if o.ReasoningEffort != "" {
		req.Reasoning = &ReasoningConfig{Effort: o.ReasoningEffort}
	}
	return req, nil
}

// HasTools reports whether the request carries tool definitions.
func (r *Request) HasTools() bool {
	return len(r.Tools) > 0
}
