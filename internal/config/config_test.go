package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedbridge/feedbridge/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feedbridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, config.CurrentVersion, cfg.Version)
	assert.Equal(t, 10*time.Minute, cfg.Timeout())
	assert.Contains(t, cfg.EnvPassthrough, "DISPLAY")
	assert.Contains(t, cfg.EnvPassthrough, "PATH")
	assert.Empty(t, cfg.DialogCommand)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
version: 1
scratch_dir: /tmp/fb
dialog_command: ["/usr/local/bin/feedbridge", "dialog"]
dialog_timeout: 30s
env_passthrough: ["DISPLAY"]
log_level: debug
legacy:
  title: "Robot question"
  timeout_ms: 60000
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/fb", cfg.ScratchDir)
	assert.Equal(t, []string{"/usr/local/bin/feedbridge", "dialog"}, cfg.DialogCommand)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, []string{"DISPLAY"}, cfg.EnvPassthrough)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, "Robot question", cfg.Legacy.Title)
	assert.Equal(t, 60000, cfg.Legacy.TimeoutMS)
}

func TestLoad_ZeroTimeoutDisablesDeadline(t *testing.T) {
	path := writeConfig(t, "version: 1\ndialog_timeout: 0\n")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Timeout())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "version: 1\nlog_level: warn\n")
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, slog.LevelWarn, cfg.Level())
	assert.Equal(t, 10*time.Minute, cfg.Timeout())
	assert.Contains(t, cfg.EnvPassthrough, "DISPLAY")
}

func TestLoad_BadDuration(t *testing.T) {
	path := writeConfig(t, "version: 1\ndialog_timeout: soon\n")
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoad_VersionMismatch(t *testing.T) {
	path := writeConfig(t, "version: 99\n")
	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
