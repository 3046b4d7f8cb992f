// Package server exposes the operation registry to the GUI over a local
// websocket. One connection carries request/response frames matched by id
// plus pushed metadata-update events.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dvirzg/Forge/internal/meta"
	"github.com/dvirzg/Forge/internal/ops"
)

// Server is the websocket RPC endpoint.
type Server struct {
	log        *slog.Logger
	registry   *ops.Registry
	hub        *meta.Hub
	httpServer *http.Server
}

// New creates a server listening on addr when started.
func New(log *slog.Logger, addr string, registry *ops.Registry, hub *meta.Hub) *Server {
	s := &Server{
		log:      log.With("component", "server"),
		registry: registry,
		hub:      hub,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", handleHealth)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler, for serving on a caller-owned listener.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("Listening", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
