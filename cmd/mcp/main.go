// Command mcp is an MCP server that exposes the demo business tools over stdio.
//
// The tools are the ones cmd/agent hands to the model, so an MCP client
// (an IDE assistant, or mcp.NewRemoteRegistry) sees the same definitions.
//
// Usage:
//
//	go run ./cmd/mcp
//
// Client configuration:
//
//	{
//	    "mcpServers": {
//	        "openresponses-tools": {
//	            "command": "go",
//	            "args": ["run", "./cmd/mcp"],
//	            "cwd": "/path/to/openresponses"
//	        }
//	    }
//	}
package main

import (
	"log"

	"github.com/spetersoncode/openresponses/internal/demo"
	"github.com/spetersoncode/openresponses/mcp"
)

func main() {
	if err := mcp.ServeStdio(demo.Registry(),
		mcp.WithName("openresponses-demo-tools"),
		mcp.WithVersion("1.0.0"),
	); err != nil {
		log.Fatal(err)
	}
}
