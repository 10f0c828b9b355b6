package openresponses

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ItemType is the discriminant carried in the "type" field of every output item.
type ItemType string

// Known item types.
const (
	ItemReasoning          ItemType = "reasoning"
	ItemMessage            ItemType = "message"
	ItemFunctionCall       ItemType = "function_call"
	ItemFunctionCallOutput ItemType = "function_call_output"
)

// Item is one entry of a response's output sequence.
//
// The set of implementations is closed: [*Reasoning], [*Message],
// [*FunctionCall], [*FunctionCallOutput] and [*Unknown]. Use a type switch
// to inspect the variant:
//
//	switch it := item.(type) {
//	case *ai.Message:
//	    fmt.Println(it.Text())
//	case *ai.FunctionCall:
//	    fmt.Println(it.Name, string(it.Arguments))
//	}
type Item interface {
	// Type returns the wire discriminant of the item.
	Type() ItemType
	isItem()
}

// Reasoning is a model reasoning trace. Providers expose it at different
// fidelity levels; see [Classify].
type Reasoning struct {
	ID               string
	Content          *string
	Summary          *string
	EncryptedContent *string

	raw json.RawMessage
}

// Message is an assistant (or replayed user) message.
type Message struct {
	ID      string
	Role    string
	Status  string
	Content *string

	raw json.RawMessage
}

// FunctionCall is a request from the model to invoke a named tool.
type FunctionCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
	CallID    string

	raw json.RawMessage
}

// FunctionCallOutput carries the textual result of a FunctionCall, matched by CallID.
type FunctionCallOutput struct {
	ID     string
	CallID string
	Output string

	raw json.RawMessage
}

// Unknown preserves an item whose type this package does not recognize.
type Unknown struct {
	ItemType string
	Raw      json.RawMessage
}

func (*Reasoning) Type() ItemType          { return ItemReasoning }
func (*Message) Type() ItemType            { return ItemMessage }
func (*FunctionCall) Type() ItemType       { return ItemFunctionCall }
func (*FunctionCallOutput) Type() ItemType { return ItemFunctionCallOutput }
func (u *Unknown) Type() ItemType          { return ItemType(u.ItemType) }

func (*Reasoning) isItem()          {}
func (*Message) isItem()            {}
func (*FunctionCall) isItem()       {}
func (*FunctionCallOutput) isItem() {}
func (*Unknown) isItem()            {}

// Text returns the message content, or "" when absent.
func (m *Message) Text() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

// NewUserMessage builds a user message item for use as request input.
func NewUserMessage(text string) *Message {
	return &Message{Role: RoleUser, Content: &text}
}

// NewFunctionCallOutput builds the result item for the call identified by callID.
func NewFunctionCallOutput(callID, output string) *FunctionCallOutput {
	return &FunctionCallOutput{CallID: callID, Output: output}
}

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// DecodeItem decodes a single output item, selecting the variant by its
// "type" field. Unrecognized types yield *Unknown. Only structurally invalid
// items return an error, always a *DecodeError.
func DecodeItem(raw json.RawMessage) (Item, error) {
	if !gjson.ValidBytes(raw) {
		return nil, &DecodeError{Msg: "invalid JSON"}
	}
	obj := gjson.ParseBytes(raw)
	if !obj.IsObject() {
		return nil, &DecodeError{Msg: "item is not an object"}
	}
	typ := obj.Get("type")
	if typ.Type != gjson.String {
		return nil, &DecodeError{Field: "type", Msg: "missing or not a string"}
	}

	kept := append(json.RawMessage(nil), raw...)

	switch ItemType(typ.Str) {
	case ItemReasoning:
		return decodeReasoning(kept)
	case ItemMessage:
		return decodeMessage(kept)
	case ItemFunctionCall:
		return decodeFunctionCall(kept)
	case ItemFunctionCallOutput:
		return decodeFunctionCallOutput(kept)
	default:
		return &Unknown{ItemType: typ.Str, Raw: kept}, nil
	}
}

func decodeReasoning(raw json.RawMessage) (*Reasoning, error) {
	var w struct {
		ID               string          `json:"id"`
		Content          json.RawMessage `json:"content"`
		Summary          json.RawMessage `json:"summary"`
		EncryptedContent *string         `json:"encrypted_content"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, wrapDecode(string(ItemReasoning), err)
	}
	content, err := decodeText("content", w.Content)
	if err != nil {
		return nil, err
	}
	summary, err := decodeText("summary", w.Summary)
	if err != nil {
		return nil, err
	}
	return &Reasoning{
		ID:               w.ID,
		Content:          content,
		Summary:          summary,
		EncryptedContent: w.EncryptedContent,
		raw:              raw,
	}, nil
}

func decodeMessage(raw json.RawMessage) (*Message, error) {
	var w struct {
		ID      string          `json:"id"`
		Role    string          `json:"role"`
		Status  string          `json:"status"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, wrapDecode(string(ItemMessage), err)
	}
	content, err := decodeText("content", w.Content)
	if err != nil {
		return nil, err
	}
	return &Message{ID: w.ID, Role: w.Role, Status: w.Status, Content: content, raw: raw}, nil
}

func decodeFunctionCall(raw json.RawMessage) (*FunctionCall, error) {
	var w struct {
		ID        string          `json:"id"`
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
		CallID    string          `json:"call_id"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, wrapDecode(string(ItemFunctionCall), err)
	}
	if w.CallID == "" {
		return nil, &DecodeError{Field: "call_id", Msg: "function_call without call_id"}
	}
	if w.Name == "" {
		return nil, &DecodeError{Field: "name", Msg: "function_call without name"}
	}
	return &FunctionCall{
		ID:        w.ID,
		Name:      w.Name,
		Arguments: normalizeArguments(w.Arguments),
		CallID:    w.CallID,
		raw:       raw,
	}, nil
}

func decodeFunctionCallOutput(raw json.RawMessage) (*FunctionCallOutput, error) {
	var w struct {
		ID     string          `json:"id"`
		CallID string          `json:"call_id"`
		Output json.RawMessage `json:"output"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, wrapDecode(string(ItemFunctionCallOutput), err)
	}
	if w.CallID == "" {
		return nil, &DecodeError{Field: "call_id", Msg: "function_call_output without call_id"}
	}
	output, err := decodeText("output", w.Output)
	if err != nil {
		return nil, err
	}
	out := &FunctionCallOutput{ID: w.ID, CallID: w.CallID, raw: raw}
	if output != nil {
		out.Output = *output
	}
	return out, nil
}

// decodeText accepts either a JSON string or an array of text parts
// ({"type": "...", "text": "..."}). Parts are joined with newlines.
// Absent, null and empty values decode to nil.
func decodeText(field string, raw json.RawMessage) (*string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	v := gjson.ParseBytes(raw)
	switch {
	case v.Type == gjson.Null:
		return nil, nil
	case v.Type == gjson.String:
		if v.Str == "" {
			return nil, nil
		}
		s := v.Str
		return &s, nil
	case v.IsArray():
		var parts []string
		for _, p := range v.Array() {
			switch {
			case p.Type == gjson.String:
				parts = append(parts, p.Str)
			case p.IsObject():
				if t := p.Get("text"); t.Exists() {
					if t.Type != gjson.String {
						return nil, &DecodeError{Field: field, Msg: "text part is not a string"}
					}
					parts = append(parts, t.Str)
				}
			default:
				return nil, &DecodeError{Field: field, Msg: "unexpected part " + p.Type.String()}
			}
		}
		joined := strings.Join(parts, "\n")
		if joined == "" {
			return nil, nil
		}
		return &joined, nil
	default:
		return nil, &DecodeError{Field: field, Msg: "expected string or array, got " + v.Type.String()}
	}
}

// normalizeArguments returns arguments as a JSON value. Providers send either
// an object or a string holding JSON; a string that is not JSON is kept as a
// JSON string so the tool sees the model's exact text.
func normalizeArguments(raw json.RawMessage) json.RawMessage {
	v := gjson.ParseBytes(raw)
	switch {
	case len(bytes.TrimSpace(raw)) == 0, v.Type == gjson.Null:
		return json.RawMessage("{}")
	case v.Type == gjson.String:
		if strings.TrimSpace(v.Str) == "" {
			return json.RawMessage("{}")
		}
		if gjson.Valid(v.Str) {
			return json.RawMessage(v.Str)
		}
		return append(json.RawMessage(nil), raw...)
	default:
		return append(json.RawMessage(nil), raw...)
	}
}

// MarshalJSON replays the item exactly as it was received, or builds the wire
// shape for locally constructed items.
func (r *Reasoning) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}
	w := map[string]any{"type": ItemReasoning}
	if r.ID != "" {
		w["id"] = r.ID
	}
	if r.Content != nil {
		w["content"] = *r.Content
	}
	if r.Summary != nil {
		w["summary"] = *r.Summary
	}
	if r.EncryptedContent != nil {
		w["encrypted_content"] = *r.EncryptedContent
	}
	return json.Marshal(w)
}

func (m *Message) MarshalJSON() ([]byte, error) {
	if m.raw != nil {
		return m.raw, nil
	}
	w := map[string]any{"type": ItemMessage, "content": m.Text()}
	if m.ID != "" {
		w["id"] = m.ID
	}
	if m.Role != "" {
		w["role"] = m.Role
	}
	if m.Status != "" {
		w["status"] = m.Status
	}
	return json.Marshal(w)
}

func (f *FunctionCall) MarshalJSON() ([]byte, error) {
	if f.raw != nil {
		return f.raw, nil
	}
	args := f.Arguments
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	w := map[string]any{
		"type":      ItemFunctionCall,
		"name":      f.Name,
		"call_id":   f.CallID,
		"arguments": string(args),
	}
	if f.ID != "" {
		w["id"] = f.ID
	}
	return json.Marshal(w)
}

func (o *FunctionCallOutput) MarshalJSON() ([]byte, error) {
	if o.raw != nil {
		return o.raw, nil
	}
	w := map[string]any{
		"type":    ItemFunctionCallOutput,
		"call_id": o.CallID,
		"output":  o.Output,
	}
	if o.ID != "" {
		w["id"] = o.ID
	}
	return json.Marshal(w)
}

func (u *Unknown) MarshalJSON() ([]byte, error) {
	if len(u.Raw) == 0 {
		return json.Marshal(map[string]string{"type": u.ItemType})
	}
	return u.Raw, nil
}

// Items is an ordered item sequence. Order reflects the causal order of
// model actions and is preserved through decoding and encoding.
type Items []Item

// UnmarshalJSON decodes an array of items, failing on the first invalid one.
func (it *Items) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return wrapDecode("output", err)
	}
	out := make(Items, 0, len(raws))
	for i, raw := range raws {
		item, err := DecodeItem(raw)
		if err != nil {
			return withPath(fmt.Sprintf("output[%d]", i), err)
		}
		out = append(out, item)
	}
	*it = out
	return nil
}
