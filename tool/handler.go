package tool

import (
	"context"
	"encoding/json"
	"fmt"

	ai "github.com/spetersoncode/openresponses"
)

// Handler executes a function call and returns its textual result.
// The context carries the per-handler timeout.
type Handler func(ctx context.Context, call *ai.FunctionCall) (string, error)

// TypedHandler is a function that executes a tool call with typed arguments.
// The args parameter is automatically unmarshaled from the call's JSON arguments.
type TypedHandler[T any] func(ctx context.Context, args T) (string, error)

// typed adapts a TypedHandler to a Handler.
func typed[T any](fn TypedHandler[T]) Handler {
	return func(ctx context.Context, call *ai.FunctionCall) (string, error) {
		var args T
		if err := decodeArgs(call.Arguments, &args); err != nil {
			return "", err
		}
		return fn(ctx, args)
	}
}

// decodeArgs unmarshals call arguments. Empty arguments decode as {}.
func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		raw = json.RawMessage(`{}`)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}
