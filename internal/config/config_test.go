package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:8750", cfg.Addr)
	require.Equal(t, "info", cfg.LogLevel)
	require.Empty(t, cfg.TempDir)
}

func TestLoad_TOMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forge.toml")

	content := `
addr = "127.0.0.1:9000"
log_level = "debug"

[tools]
ffmpeg = "/opt/ffmpeg/bin/ffmpeg"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9000", cfg.Addr)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.Tools.FFmpeg)
	require.Empty(t, cfg.Tools.Ghostscript)
}

func TestLoad_EnvOverridesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forge.toml")
	require.NoError(t, os.WriteFile(path, []byte(`addr = "127.0.0.1:9000"`), 0o644))

	t.Setenv("FORGE_ADDR", "127.0.0.1:9100")
	t.Setenv("FORGE_GS", "/usr/local/bin/gs")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9100", cfg.Addr)
	require.Equal(t, "/usr/local/bin/gs", cfg.Tools.Ghostscript)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "verbose"

	err := Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "verbose")
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := Default()
	cfg.Addr = " "

	require.Error(t, Validate(cfg))
}
