package server

import (
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/dvirzg/Forge/internal/errors"
	"github.com/dvirzg/Forge/internal/meta"
	"github.com/dvirzg/Forge/internal/ops"
	"github.com/dvirzg/Forge/internal/textops"
)

func dialTestServer(t *testing.T) (*websocket.Conn, *meta.Hub) {
	t.Helper()

	log := slog.Default()
	hub := meta.NewHub(log)

	reg := ops.NewRegistry(log)
	ops.RegisterAll(reg, ops.Services{
		Texts: textops.New(log),
		Hub:   hub,
	})

	srv := New(log, "127.0.0.1:0", reg, hub)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn, hub
}

// readFrame reads until a frame of the wanted type arrives, skipping
// interleaved frames of other types.
func readFrame(t *testing.T, conn *websocket.Conn, wantType string) map[string]any {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	require.NoError(t, conn.SetReadDeadline(deadline))

	for {
		var frame map[string]any
		require.NoError(t, conn.ReadJSON(&frame))

		if frame["type"] == wantType {
			return frame
		}
	}
}

func sendRequest(t *testing.T, conn *websocket.Conn, req Request) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(req))
}

func TestWS_RequestResponse(t *testing.T) {
	conn, _ := dialTestServer(t)

	sendRequest(t, conn, Request{
		Type:   "request",
		ID:     "req-1",
		Op:     "text.convert_case",
		Params: map[string]any{"text": "hello world", "case": "snake"},
	})

	resp := readFrame(t, conn, "response")
	require.Equal(t, "req-1", resp["id"])
	require.Equal(t, true, resp["ok"])

	result, ok := resp["result"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "hello_world", result["text"])
}

func TestWS_UnknownOp(t *testing.T) {
	conn, _ := dialTestServer(t)

	sendRequest(t, conn, Request{Type: "request", ID: "req-2", Op: "image.sharpen"})

	resp := readFrame(t, conn, "response")
	require.Equal(t, "req-2", resp["id"])
	require.NotEqual(t, true, resp["ok"])

	wireErr, ok := resp["error"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, errors.CodeUnknownOp, wireErr["code"])
	require.Contains(t, wireErr["message"], "image.sharpen")
}

func TestWS_BadEnvelopeType(t *testing.T) {
	conn, _ := dialTestServer(t)

	sendRequest(t, conn, Request{Type: "call", ID: "req-3", Op: "text.metadata"})

	resp := readFrame(t, conn, "response")
	require.Equal(t, "req-3", resp["id"])

	wireErr, ok := resp["error"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, errors.CodeBadParam, wireErr["code"])
}

func TestWS_MetadataEventPushed(t *testing.T) {
	conn, hub := dialTestServer(t)

	// Give the connection a moment to register its hub subscription.
	time.Sleep(50 * time.Millisecond)

	snap := hub.Publish("image", "/tmp/photo.png", map[string]any{"width": 4})

	evt := readFrame(t, conn, "event")
	require.Equal(t, "metadata-update", evt["event"])

	payload, ok := evt["payload"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, snap.ID, payload["id"])
	require.Equal(t, "image", payload["kind"])
}

func TestWS_RequestsRunConcurrently(t *testing.T) {
	conn, _ := dialTestServer(t)

	for i := range 5 {
		sendRequest(t, conn, Request{
			Type:   "request",
			ID:     string(rune('a' + i)),
			Op:     "text.metadata",
			Params: map[string]any{"text": "x y z"},
		})
	}

	seen := map[string]bool{}

	for range 5 {
		resp := readFrame(t, conn, "response")
		require.Equal(t, true, resp["ok"])
		seen[resp["id"].(string)] = true
	}

	require.Len(t, seen, 5)
}

func TestResponseMarshalling(t *testing.T) {
	resp := errResponse("id-1", &errors.UnknownOpError{Op: "nope"})

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	require.Contains(t, string(data), `"code":"unknown_op"`)
	require.NotContains(t, string(data), `"result"`)
}
