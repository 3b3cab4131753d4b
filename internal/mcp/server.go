package mcp

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server exposing every tool in the registry.
func NewServer(reg *Registry, name, version string) *server.MCPServer {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	RegisterTools(s, reg)
	return s
}

// RegisterTools adds one MCP tool per catalog entry and returns the count.
func RegisterTools(s *server.MCPServer, reg *Registry) int {
	for _, t := range reg.List() {
		schema, _ := reg.InputSchema(t.Name)
		s.AddTool(mcp.NewToolWithRawSchema(t.Name, t.Description, schema), ToolHandler(reg, t.Name))
	}
	return len(reg.tools)
}

// ToolHandler adapts Registry.Call to the mcp-go handler signature.
func ToolHandler(reg *Registry, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return reg.Call(ctx, name, r.GetArguments()), nil
	}
}

// ServeStdio serves s over in/out until in closes or ctx is cancelled.
// Cancellation is a clean shutdown.
func ServeStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s)
	err := stdio.Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// NewHandler returns a stateless streamable HTTP handler for s.
func NewHandler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s, server.WithStateLess(true))
}
