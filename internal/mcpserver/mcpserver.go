// Package mcpserver exposes the operation registry as MCP tools over stdio,
// so agent hosts can drive the same conversions the GUI does.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dvirzg/Forge/internal/ops"
)

// Server wraps the MCP SDK server around the registry.
type Server struct {
	log *slog.Logger
	mcp *mcp.Server
}

// New builds an MCP server with one tool per registered operation. Dots in
// operation names become underscores, so "image.rotate" is exposed as the
// tool "image_rotate".
func New(log *slog.Logger, name, version string, registry *ops.Registry) *Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil)

	for _, op := range registry.List() {
		tool := &mcp.Tool{
			Name:        toolName(op.Name),
			Description: op.Description,
			InputSchema: op.Schema,
		}

		srv.AddTool(tool, handlerFor(op))
	}

	return &Server{
		log: log.With("component", "mcpserver"),
		mcp: srv,
	}
}

// Run serves MCP over stdio until ctx ends or the host disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("Serving MCP over stdio")

	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func toolName(opName string) string {
	return strings.ReplaceAll(opName, ".", "_")
}

// handlerFor adapts an operation to an MCP tool handler. Operation errors
// come back as error results rather than protocol errors, so the host sees
// the taxonomy message.
func handlerFor(op *ops.Operation) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params, err := parseArguments(req)
		if err != nil {
			return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		result, err := op.Handler(ctx, params)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		data, err := json.Marshal(result)
		if err != nil {
			return errorResult(fmt.Sprintf("encode result: %v", err)), nil
		}

		return textResult(string(data)), nil
	}
}

func parseArguments(req *mcp.CallToolRequest) (map[string]any, error) {
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return map[string]any{}, nil
	}

	var params map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	return params, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: message}},
		IsError: true,
	}
}
