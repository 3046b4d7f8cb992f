package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dvirzg/Forge/internal/errors"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10

	writeBuffer = 64
)

// The endpoint binds to loopback only; the GUI is the one expected client.
var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.log.Info("Client connected", "remote", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		return
	}

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	writeCh := make(chan any, writeBuffer)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)

		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}

				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}

				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// Forward published metadata snapshots to this client.
	snapshots, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-snapshots:
				if !ok {
					return
				}

				s.push(ctx, writeCh, Event{
					Type:    "event",
					Event:   "metadata-update",
					Payload: snap,
				})
			}
		}
	}()

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("Read failed", "error", err)
			}

			cancel()
			<-writerDone

			s.log.Info("Client disconnected", "remote", r.RemoteAddr)

			return
		}

		if strings.TrimSpace(req.Type) != "request" {
			s.push(ctx, writeCh, errResponse(req.ID, &errors.ParamError{Param: "type", Reason: `must be "request"`}))

			continue
		}

		if strings.TrimSpace(req.Op) == "" {
			s.push(ctx, writeCh, errResponse(req.ID, &errors.ParamError{Param: "op", Reason: "is required"}))

			continue
		}

		// Each request runs in its own goroutine so a long conversion does
		// not block other requests on the same connection. Operations get a
		// fresh context: a dropped connection must not kill a conversion
		// that is already writing its output.
		go func() {
			result, err := s.registry.Dispatch(context.Background(), req.Op, req.Params)
			if err != nil {
				s.push(ctx, writeCh, errResponse(req.ID, err))

				return
			}

			s.push(ctx, writeCh, okResponse(req.ID, result))
		}()
	}
}

// push delivers a frame to the writer goroutine, giving up only when the
// connection context ends.
func (s *Server) push(ctx context.Context, writeCh chan any, out any) {
	select {
	case writeCh <- out:
	case <-ctx.Done():
	}
}
