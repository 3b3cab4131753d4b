package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// successResult renders v as indented JSON in a single text block.
func successResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("failed to encode result: %w", err))
	}
	return mcp.NewToolResultText(string(out))
}

// errorResult creates an MCP error result with text "Error: <message>".
func errorResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError("Error: " + err.Error())
}
