package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	ai "github.com/spetersoncode/openresponses"
	"github.com/spetersoncode/openresponses/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type addArgs struct {
	A int `json:"a"`
	B int `json:"b"`
}

type echoArgs struct {
	Text string `json:"text"`
}

func testRegistry() *tool.Registry {
	return tool.NewRegistry().Add(
		tool.Func("echo", "Echo text", func(_ context.Context, args echoArgs) (string, error) {
			return args.Text, nil
		}),
		tool.Func("add", "Add numbers", func(_ context.Context, args addArgs) (string, error) {
			data, err := json.Marshal(args.A + args.B)
			return string(data), err
		}),
		tool.Func("fail", "Always fails", func(context.Context, struct{}) (string, error) {
			return "", errors.New("tool broke")
		}),
	)
}

// connect starts an in-process client for registry and initializes it.
func connect(t *testing.T, registry *tool.Registry) *client.Client {
	t.Helper()
	c, err := client.NewInProcessClient(NewServer(registry, WithName("test-server"), WithVersion("1.0.0")))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	t.Cleanup(func() { c.Close() })

	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo:      mcp.Implementation{Name: "test-client", Version: "1.0.0"},
		},
	})
	require.NoError(t, err)
	return c
}

func TestToMCPTool(t *testing.T) {
	t.Run("uses parameters as raw schema", func(t *testing.T) {
		mcpTool := ToMCPTool(ai.Tool{
			Name:        "weather",
			Description: "Get weather",
			Parameters:  json.RawMessage(`{"type":"object","properties":{"city":{"type":"string"}}}`),
		})

		assert.Equal(t, "weather", mcpTool.Name)
		assert.Equal(t, "Get weather", mcpTool.Description)
		assert.JSONEq(t, `{"type":"object","properties":{"city":{"type":"string"}}}`, string(mcpTool.RawInputSchema))
	})

	t.Run("defaults empty parameters", func(t *testing.T) {
		mcpTool := ToMCPTool(ai.Tool{Name: "ping"})
		assert.JSONEq(t, `{"type":"object","properties":{}}`, string(mcpTool.RawInputSchema))
	})

	t.Run("converts slices", func(t *testing.T) {
		tools := ToMCPTools([]ai.Tool{{Name: "a"}, {Name: "b"}})
		require.Len(t, tools, 2)
		assert.Equal(t, "b", tools[1].Name)
	})
}

func TestFromMCPTool(t *testing.T) {
	t.Run("raw schema", func(t *testing.T) {
		converted := FromMCPTool(mcp.NewToolWithRawSchema("weather", "Get weather", json.RawMessage(`{"type":"object"}`)))

		assert.Equal(t, "weather", converted.Name)
		assert.Equal(t, "Get weather", converted.Description)
		assert.JSONEq(t, `{"type":"object"}`, string(converted.Parameters))
	})

	t.Run("structured schema", func(t *testing.T) {
		converted := FromMCPTool(mcp.NewTool("search",
			mcp.WithDescription("Search the web"),
			mcp.WithString("query", mcp.Required()),
		))

		assert.Equal(t, "search", converted.Name)
		var schema map[string]any
		require.NoError(t, json.Unmarshal(converted.Parameters, &schema))
		assert.Contains(t, schema["properties"], "query")
	})

	t.Run("converts slices", func(t *testing.T) {
		tools := FromMCPTools([]mcp.Tool{mcp.NewTool("a"), mcp.NewTool("b")})
		require.Len(t, tools, 2)
		assert.Equal(t, "a", tools[0].Name)
	})
}

func TestToMCPCallToolRequest(t *testing.T) {
	tests := []struct {
		name string
		args json.RawMessage
		want any
	}{
		{"object", json.RawMessage(`{"a": 10, "b": 5}`), map[string]any{"a": float64(10), "b": float64(5)}},
		{"empty", nil, nil},
		{"not JSON", json.RawMessage(`a=1`), "a=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ToMCPCallToolRequest(&ai.FunctionCall{CallID: "call_1", Name: "calculate", Arguments: tt.args})
			assert.Equal(t, "calculate", req.Params.Name)
			assert.Equal(t, tt.want, req.Params.Arguments)
		})
	}
}

func TestResultText(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		out, err := ResultText(mcp.NewToolResultText("Hello, World!"))
		require.NoError(t, err)
		assert.Equal(t, "Hello, World!", out)
	})

	t.Run("error result", func(t *testing.T) {
		_, err := ResultText(mcp.NewToolResultError("something went wrong"))
		require.Error(t, err)
		assert.Equal(t, "something went wrong", err.Error())
	})

	t.Run("structured content", func(t *testing.T) {
		out, err := ResultText(mcp.NewToolResultStructured(map[string]any{"n": 1}, "one"))
		require.NoError(t, err)
		assert.Equal(t, "one\n{\"n\":1}", out)
	})

	t.Run("nil result", func(t *testing.T) {
		_, err := ResultText(nil)
		assert.Error(t, err)
	})
}

func TestToMCPCallToolResult(t *testing.T) {
	ok := ToMCPCallToolResult("Success!", nil)
	assert.False(t, ok.IsError)
	require.Len(t, ok.Content, 1)

	failed := ToMCPCallToolResult("", &tool.ErrToolExecution{Name: "x", Err: errors.New("Error message")})
	assert.True(t, failed.IsError)
	require.Len(t, failed.Content, 1)
	assert.Equal(t, "error: Error message", failed.Content[0].(mcp.TextContent).Text)
}

func TestServer(t *testing.T) {
	c := connect(t, testRegistry())
	ctx := context.Background()

	t.Run("lists registry tools", func(t *testing.T) {
		result, err := c.ListTools(ctx, mcp.ListToolsRequest{})
		require.NoError(t, err)

		var names []string
		for _, tl := range result.Tools {
			names = append(names, tl.Name)
		}
		assert.ElementsMatch(t, []string{"add", "echo", "fail"}, names)
	})

	t.Run("calls tools", func(t *testing.T) {
		result, err := c.CallTool(ctx, mcp.CallToolRequest{
			Params: mcp.CallToolParams{Name: "echo", Arguments: map[string]any{"text": "World"}},
		})
		require.NoError(t, err)

		assert.False(t, result.IsError)
		require.Len(t, result.Content, 1)
		text, ok := result.Content[0].(mcp.TextContent)
		require.True(t, ok)
		assert.Equal(t, "World", text.Text)
	})

	t.Run("handler errors become error results", func(t *testing.T) {
		result, err := c.CallTool(ctx, mcp.CallToolRequest{
			Params: mcp.CallToolParams{Name: "fail", Arguments: map[string]any{}},
		})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		require.Len(t, result.Content, 1)
		text, ok := result.Content[0].(mcp.TextContent)
		require.True(t, ok)
		assert.Equal(t, "error: tool broke", text.Text)
	})
}

func TestServer_RecoversHandlerPanics(t *testing.T) {
	registry := tool.NewRegistry().Add(
		tool.Func("explode", "Panics", func(context.Context, struct{}) (string, error) {
			panic("boom")
		}),
	)
	c := connect(t, registry)

	result, err := c.CallTool(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "explode", Arguments: map[string]any{}},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "error: panic: boom", text.Text)
}

func TestRemoteRegistry(t *testing.T) {
	c, err := client.NewInProcessClient(NewServer(testRegistry()))
	require.NoError(t, err)

	ctx := context.Background()
	remote, err := NewRemoteRegistryFromClient(ctx, c)
	require.NoError(t, err)
	defer remote.Close()

	t.Run("imports tool definitions", func(t *testing.T) {
		assert.Equal(t, 3, remote.Len())
		assert.True(t, remote.Has("echo"))
		assert.Equal(t, []string{"add", "echo", "fail"}, remote.Names())

		echo, ok := remote.GetTool("echo")
		require.True(t, ok)
		assert.Equal(t, "Echo text", echo.Description)

		require.NoError(t, remote.Refresh(ctx))
		assert.Equal(t, 3, remote.Len())
	})

	t.Run("executes remote tools", func(t *testing.T) {
		out, err := remote.Execute(ctx, &ai.FunctionCall{
			CallID:    "call_123",
			Name:      "add",
			Arguments: json.RawMessage(`{"a": 10, "b": 5}`),
		})
		require.NoError(t, err)
		assert.Equal(t, "15", out)

		_, err = remote.Execute(ctx, &ai.FunctionCall{Name: "fail", Arguments: json.RawMessage(`{}`)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tool broke")
	})

	t.Run("registers into a local registry", func(t *testing.T) {
		local := tool.NewRegistry()
		require.NoError(t, remote.RegisterInto(local))
		assert.Equal(t, []string{"add", "echo", "fail"}, local.Names())

		out, err := local.Execute(ctx, &ai.FunctionCall{
			CallID:    "c1",
			Name:      "echo",
			Arguments: json.RawMessage(`{"text":"via mcp"}`),
		})
		require.NoError(t, err)
		assert.Equal(t, "c1", out.CallID)
		assert.Equal(t, "via mcp", out.Output)

		out, err = local.Execute(ctx, &ai.FunctionCall{CallID: "c2", Name: "fail", Arguments: json.RawMessage(`{}`)})
		require.NoError(t, err)
		assert.Equal(t, "error: tool broke", out.Output)

		var dup *tool.ErrToolAlreadyRegistered
		assert.True(t, errors.As(remote.RegisterInto(local), &dup))
	})
}
