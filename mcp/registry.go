package mcp

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	ai "github.com/spetersoncode/openresponses"
	"github.com/spetersoncode/openresponses/tool"
)

// RemoteRegistry mirrors the tool list of an MCP server and proxies calls
// to it. The list is fetched on connect and again on Refresh; reads see a
// consistent snapshot and are safe for concurrent use.
type RemoteRegistry struct {
	client *client.Client

	mu    sync.RWMutex
	tools []ai.Tool // sorted by name
}

// NewRemoteRegistry starts command as a stdio MCP server and imports its
// tools. env entries have the form KEY=value.
func NewRemoteRegistry(ctx context.Context, command string, env []string, args ...string) (*RemoteRegistry, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("mcp: start %s: %w", command, err)
	}
	return connect(ctx, c)
}

// NewRemoteRegistrySSE connects to an MCP server over SSE.
func NewRemoteRegistrySSE(ctx context.Context, baseURL string) (*RemoteRegistry, error) {
	c, err := client.NewSSEMCPClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("mcp: sse client for %s: %w", baseURL, err)
	}
	return connect(ctx, c)
}

// NewRemoteRegistryFromClient uses an existing, not yet initialized
// client, such as an in-process one.
func NewRemoteRegistryFromClient(ctx context.Context, c *client.Client) (*RemoteRegistry, error) {
	return connect(ctx, c)
}

func connect(ctx context.Context, c *client.Client) (*RemoteRegistry, error) {
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("mcp: start client: %w", err)
	}

	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: "openresponses-mcp-client", Version: "1.0.0"}
	if _, err := c.Initialize(ctx, req); err != nil {
		c.Close()
		return nil, fmt.Errorf("mcp: initialize: %w", err)
	}

	r := &RemoteRegistry{client: c}
	if err := r.Refresh(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return r, nil
}

// Close ends the MCP session.
func (r *RemoteRegistry) Close() error {
	return r.client.Close()
}

// Refresh replaces the cached tool list with the server's current one.
func (r *RemoteRegistry) Refresh(ctx context.Context) error {
	result, err := r.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return fmt.Errorf("mcp: list tools: %w", err)
	}

	tools := FromMCPTools(result.Tools)
	slices.SortFunc(tools, func(a, b ai.Tool) int { return cmp.Compare(a.Name, b.Name) })

	r.mu.Lock()
	r.tools = tools
	r.mu.Unlock()
	return nil
}

func (r *RemoteRegistry) snapshot() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools
}

// Tools returns the remote tool definitions sorted by name.
func (r *RemoteRegistry) Tools() []ai.Tool {
	return slices.Clone(r.snapshot())
}

// GetTool returns the definition of the named remote tool.
func (r *RemoteRegistry) GetTool(name string) (ai.Tool, bool) {
	tools := r.snapshot()
	i, ok := slices.BinarySearchFunc(tools, name, func(t ai.Tool, name string) int {
		return cmp.Compare(t.Name, name)
	})
	if !ok {
		return ai.Tool{}, false
	}
	return tools[i], true
}

// Has reports whether the server offers the named tool.
func (r *RemoteRegistry) Has(name string) bool {
	_, ok := r.GetTool(name)
	return ok
}

// Names returns the remote tool names, sorted.
func (r *RemoteRegistry) Names() []string {
	tools := r.snapshot()
	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}
	return names
}

// Len returns the number of remote tools.
func (r *RemoteRegistry) Len() int {
	return len(r.snapshot())
}

// Execute forwards call to the server. It satisfies tool.Handler, so an
// error result from the server comes back as an error and the registry
// renders it as tool output.
func (r *RemoteRegistry) Execute(ctx context.Context, call *ai.FunctionCall) (string, error) {
	result, err := r.client.CallTool(ctx, ToMCPCallToolRequest(call))
	if err != nil {
		return "", fmt.Errorf("mcp: call %s: %w", call.Name, err)
	}
	return ResultText(result)
}

// RegisterInto adds every remote tool to registry with Execute as the
// handler. It stops at the first error, typically a name clash with a
// local tool.
func (r *RemoteRegistry) RegisterInto(registry *tool.Registry) error {
	for _, t := range r.snapshot() {
		if err := registry.Register(t, r.Execute); err != nil {
			return err
		}
	}
	return nil
}
