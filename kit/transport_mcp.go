package kit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolError is an error that can describe itself as structured fields.
// RegisterMCPTool attaches those fields to the tool result so clients can
// act on them without parsing the message.
type ToolError interface {
	error
	ToolFields() map[string]any
}

// Decoder extracts the endpoint request from a tool call.
type Decoder func(*mcp.CallToolRequest) (any, error)

// NoArgs is a Decoder for tools that take no arguments.
func NoArgs(*mcp.CallToolRequest) (any, error) { return nil, nil }

// RegisterMCPTool registers an Endpoint as an MCP tool on the given server.
// Endpoint errors become tool errors (IsError) rather than protocol errors.
// The context is passed through untouched; tag it with middlewares.
func RegisterMCPTool(srv *mcp.Server, tool *mcp.Tool, endpoint Endpoint, decode Decoder) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		in, err := decode(req)
		if err != nil {
			return toolError(fmt.Errorf("invalid arguments: %w", err)), nil
		}
		resp, err := endpoint(ctx, in)
		if err != nil {
			return toolError(err), nil
		}
		data, err := json.Marshal(resp)
		if err != nil {
			return toolError(fmt.Errorf("marshal: %w", err)), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

func toolError(err error) *mcp.CallToolResult {
	var res mcp.CallToolResult
	res.SetError(err)

	fields := map[string]any{"error": err.Error()}
	var te ToolError
	if errors.As(err, &te) {
		for k, v := range te.ToolFields() {
			fields[k] = v
		}
	}
	res.StructuredContent = fields
	return &res
}
