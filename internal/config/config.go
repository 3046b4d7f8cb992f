// Package config loads daemon settings. Values layer in order: built-in
// defaults, then an optional TOML file, then .env and process environment.
// Command-line flags are applied last by the caller.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the daemon.
type Config struct {
	// Addr is the websocket listen address. Loopback by default; the GUI
	// is the only expected client.
	Addr string `toml:"addr"`

	// TempDir receives intermediate files. Empty means the OS temp dir.
	TempDir string `toml:"temp_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	Tools ToolPaths `toml:"tools"`
}

// ToolPaths optionally pins external tool binaries to explicit paths,
// bypassing discovery.
type ToolPaths struct {
	FFmpeg      string `toml:"ffmpeg"`
	FFprobe     string `toml:"ffprobe"`
	Ghostscript string `toml:"ghostscript"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:     "127.0.0.1:8750",
		LogLevel: "info",
	}
}

// Load builds the configuration. A non-empty path names a TOML file that
// must exist; an empty path skips the file layer. A .env file in the
// working directory is folded into the environment when present.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	// Missing .env is not an error.
	_ = godotenv.Load()

	applyEnv(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FORGE_ADDR"); v != "" {
		cfg.Addr = v
	}

	if v := os.Getenv("FORGE_TEMP_DIR"); v != "" {
		cfg.TempDir = v
	}

	if v := os.Getenv("FORGE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv("FORGE_FFMPEG"); v != "" {
		cfg.Tools.FFmpeg = v
	}

	if v := os.Getenv("FORGE_FFPROBE"); v != "" {
		cfg.Tools.FFprobe = v
	}

	if v := os.Getenv("FORGE_GS"); v != "" {
		cfg.Tools.Ghostscript = v
	}
}

// Validate rejects configurations the daemon cannot start with.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("addr is required")
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (debug, info, warn or error)", cfg.LogLevel)
	}

	return nil
}
