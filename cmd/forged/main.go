// Command forged is the conversion daemon behind the desktop app. It serves
// the operation registry to the GUI over a local websocket, or over MCP
// stdio with --mcp.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dvirzg/Forge/internal/config"
	"github.com/dvirzg/Forge/internal/imageops"
	"github.com/dvirzg/Forge/internal/mcpserver"
	"github.com/dvirzg/Forge/internal/meta"
	"github.com/dvirzg/Forge/internal/ops"
	"github.com/dvirzg/Forge/internal/pdfops"
	"github.com/dvirzg/Forge/internal/server"
	"github.com/dvirzg/Forge/internal/textops"
	"github.com/dvirzg/Forge/internal/toolexec"
	"github.com/dvirzg/Forge/internal/videoops"
)

const (
	appName    = "forged"
	appVersion = "0.1.0"

	shutdownTimeout = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "path to a TOML config file")
		addr       = flag.String("addr", "", "websocket listen address (overrides config)")
		tempDir    = flag.String("temp-dir", "", "directory for intermediate files (overrides config)")
		logLevel   = flag.String("log-level", "", "log level: debug, info, warn, error (overrides config)")
		mcpMode    = flag.Bool("mcp", false, "serve MCP over stdio instead of the websocket")
	)

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Flags win over every other layer.
	if *addr != "" {
		cfg.Addr = *addr
	}

	if *tempDir != "" {
		cfg.TempDir = *tempDir
	}

	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	log := newLogger(cfg.LogLevel)

	ffmpeg := newRunner(log, toolexec.FFmpeg, cfg.Tools.FFmpeg)
	ffprobe := newRunner(log, toolexec.FFprobe, cfg.Tools.FFprobe)
	gs := newRunner(log, toolexec.Ghostscript, cfg.Tools.Ghostscript)

	hub := meta.NewHub(log)

	registry := ops.NewRegistry(log)
	ops.RegisterAll(registry, ops.Services{
		Images:  imageops.New(log),
		PDFs:    pdfops.New(log, gs),
		Videos:  videoops.New(log, ffmpeg, ffprobe, cfg.TempDir),
		Texts:   textops.New(log),
		Hub:     hub,
		Runners: []toolexec.Invoker{ffmpeg, ffprobe, gs},
	})

	if *mcpMode {
		return runMCP(log, registry)
	}

	return runWebsocket(log, cfg.Addr, registry, hub)
}

func runMCP(log *slog.Logger, registry *ops.Registry) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return mcpserver.New(log, appName, appVersion, registry).Run(ctx)
}

func runWebsocket(log *slog.Logger, addr string, registry *ops.Registry, hub *meta.Hub) error {
	srv := server.New(log, addr, registry, hub)

	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return <-errCh
}

// newLogger builds the root logger. In MCP mode stdout belongs to the
// protocol, so logs always go to stderr.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level

	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func newRunner(log *slog.Logger, tool toolexec.Tool, path string) *toolexec.Runner {
	if path != "" {
		return toolexec.NewWithPath(log, tool, path)
	}

	return toolexec.New(log, tool)
}
