// Package mcp bridges tool registries and the Model Context Protocol.
//
// MCP lets assistants discover and call tools hosted by another process.
// This package works in both directions:
//
//   - Server: expose a [tool.Registry] as an MCP server, so MCP clients can
//     discover and call the same tools an agent uses.
//   - Client: connect to an MCP server and import its tools with
//     [RemoteRegistry], so an agent can call them as function calls.
//
// # Exposing Tools as an MCP Server
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("search_documents", "Search documents", searchHandler),
//	)
//
//	if err := mcp.ServeStdio(registry); err != nil {
//	    log.Fatal(err)
//	}
//
// # Consuming MCP Servers
//
//	remote, err := mcp.NewRemoteRegistry(ctx, "./my-mcp-server", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer remote.Close()
//
//	registry := tool.NewRegistry()
//	if err := remote.RegisterInto(registry); err != nil {
//	    log.Fatal(err)
//	}
//	a := agent.New(client, registry)
package mcp

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	ai "github.com/spetersoncode/openresponses"
	"github.com/spetersoncode/openresponses/tool"
)

// ToMCPTool converts a Tool to an MCP Tool.
// The parameter schema is used as the MCP Tool's RawInputSchema.
func ToMCPTool(t ai.Tool) mcp.Tool {
	return mcp.NewToolWithRawSchema(t.Name, t.Description, t.Definition().Parameters)
}

// ToMCPTools converts a slice of Tools to MCP Tools.
func ToMCPTools(tools []ai.Tool) []mcp.Tool {
	result := make([]mcp.Tool, len(tools))
	for i, t := range tools {
		result[i] = ToMCPTool(t)
	}
	return result
}

// FromMCPTool converts an MCP Tool to a Tool.
// It extracts the JSON schema from either RawInputSchema or InputSchema.
func FromMCPTool(t mcp.Tool) ai.Tool {
	var schema json.RawMessage

	if len(t.RawInputSchema) > 0 {
		schema = t.RawInputSchema
	} else {
		data, err := json.Marshal(t.InputSchema)
		if err == nil {
			schema = data
		}
	}

	return ai.Tool{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  schema,
	}
}

// FromMCPTools converts a slice of MCP Tools to Tools.
func FromMCPTools(tools []mcp.Tool) []ai.Tool {
	result := make([]ai.Tool, len(tools))
	for i, t := range tools {
		result[i] = FromMCPTool(t)
	}
	return result
}

// ToMCPCallToolRequest converts a function call to an MCP CallToolRequest.
// Arguments that are not valid JSON are passed as a string.
func ToMCPCallToolRequest(call *ai.FunctionCall) mcp.CallToolRequest {
	var args any
	if len(call.Arguments) > 0 {
		if err := json.Unmarshal(call.Arguments, &args); err != nil {
			args = string(call.Arguments)
		}
	}

	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      call.Name,
			Arguments: args,
		},
	}
}

// ResultText extracts the text of an MCP CallToolResult. Text content is
// used as is; other content and structured content are encoded as JSON.
// Parts are joined with newlines. An error result is returned as an error
// carrying the text.
func ResultText(result *mcp.CallToolResult) (string, error) {
	if result == nil {
		return "", errors.New("mcp: empty tool result")
	}

	var textParts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			textParts = append(textParts, content.Text)
		case *mcp.TextContent:
			textParts = append(textParts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				textParts = append(textParts, string(data))
			}
		}
	}

	if result.StructuredContent != nil {
		if data, err := json.Marshal(result.StructuredContent); err == nil {
			textParts = append(textParts, string(data))
		}
	}

	text := strings.Join(textParts, "\n")
	if result.IsError {
		return "", errors.New(text)
	}
	return text, nil
}

// ToMCPCallToolResult converts a registry outcome to an MCP CallToolResult.
// A failure is rendered with tool.ErrorOutput and flagged as an error.
func ToMCPCallToolResult(output string, err error) *mcp.CallToolResult {
	if err != nil {
		return mcp.NewToolResultError(tool.ErrorOutput(err))
	}
	return mcp.NewToolResultText(output)
}
