package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/dvirzg/Forge/internal/meta"
	"github.com/dvirzg/Forge/internal/ops"
	"github.com/dvirzg/Forge/internal/textops"
)

func testOp(t *testing.T, name string) *ops.Operation {
	t.Helper()

	log := slog.Default()

	reg := ops.NewRegistry(log)
	ops.RegisterAll(reg, ops.Services{
		Texts: textops.New(log),
		Hub:   meta.NewHub(log),
	})

	op, err := reg.Get(name)
	require.NoError(t, err)

	return op
}

func callRequest(t *testing.T, args map[string]any) *mcp.CallToolRequest {
	t.Helper()

	raw, err := json.Marshal(args)
	require.NoError(t, err)

	return &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: raw},
	}
}

func TestToolName(t *testing.T) {
	require.Equal(t, "image_rotate", toolName("image.rotate"))
	require.Equal(t, "tools_check", toolName("tools.check"))
}

func TestHandler_ReturnsJSONResult(t *testing.T) {
	handler := handlerFor(testOp(t, "text.convert_case"))

	result, err := handler(context.Background(), callRequest(t, map[string]any{
		"text": "hello world",
		"case": "kebab",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &decoded))
	require.Equal(t, "hello-world", decoded["text"])
}

func TestHandler_OperationErrorBecomesErrorResult(t *testing.T) {
	handler := handlerFor(testOp(t, "text.convert_case"))

	result, err := handler(context.Background(), callRequest(t, map[string]any{
		"text": "abc",
		"case": "sarcastic",
	}))
	require.NoError(t, err)
	require.True(t, result.IsError)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	require.Contains(t, text.Text, "sarcastic")
}

func TestHandler_NilArguments(t *testing.T) {
	handler := handlerFor(testOp(t, "text.metadata"))

	result, err := handler(context.Background(), &mcp.CallToolRequest{})
	require.NoError(t, err)
	require.True(t, result.IsError)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	require.Contains(t, text.Text, "text")
}
