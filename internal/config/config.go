// Package config loads the versioned feedbridge configuration file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the config schema version this build understands.
const CurrentVersion = 1

// Duration decodes YAML duration strings like "10m" or "0".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler. The raw scalar is parsed so
// both "30s" and a bare 0 work.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	raw := value.Value
	if raw == "" {
		return fmt.Errorf("empty duration")
	}
	if raw == "0" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Legacy holds fields earlier revisions of the tool surface accepted per
// call. They are now fixed server-side; explicit fields rather than ad hoc
// presence checks.
type Legacy struct {
	// Title overrides the dialog window title.
	Title string `yaml:"title,omitempty"`
	// TimeoutMS is forwarded to the dialog subprocess verbatim for old
	// dialog builds that enforce their own deadline.
	TimeoutMS int `yaml:"timeout_ms,omitempty"`
}

// Config is the full server configuration.
type Config struct {
	Version int `yaml:"version"`

	// ScratchDir is where handshake files live. Empty means the OS temp
	// directory.
	ScratchDir string `yaml:"scratch_dir,omitempty"`

	// DialogCommand is the argv of the dialog subprocess. Empty means
	// re-exec this binary with the "dialog" subcommand.
	DialogCommand []string `yaml:"dialog_command,omitempty"`

	// DialogTimeout bounds how long a dialog may stay open. Zero disables
	// the deadline and lets the window stay open indefinitely.
	DialogTimeout Duration `yaml:"dialog_timeout,omitempty"`

	// EnvPassthrough lists host environment variables copied into the
	// dialog subprocess so it can reach the display server.
	EnvPassthrough []string `yaml:"env_passthrough,omitempty"`

	LogLevel string `yaml:"log_level,omitempty"`

	Legacy Legacy `yaml:"legacy,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Version:       CurrentVersion,
		DialogTimeout: Duration(10 * time.Minute),
		EnvPassthrough: []string{
			"DISPLAY", "WAYLAND_DISPLAY", "XAUTHORITY",
			"DBUS_SESSION_BUS_ADDRESS", "XDG_RUNTIME_DIR",
			"HOME", "PATH", "LANG", "LC_ALL", "TERM", "TMPDIR",
			"FEEDBRIDGE_ATTACH",
		},
		LogLevel: "info",
	}
}

// Load reads a YAML config file and merges it over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Version != CurrentVersion {
		return cfg, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentVersion)
	}
	return cfg, nil
}

// Timeout returns the dialog deadline as a time.Duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.DialogTimeout)
}

// Level maps the configured log level string to a slog.Level.
func (c Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
