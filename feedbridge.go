package feedbridge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/feedbridge/feedbridge/internal/logging"
	"github.com/feedbridge/feedbridge/pkg/bridge"
	"github.com/feedbridge/feedbridge/pkg/domain"
	"github.com/feedbridge/feedbridge/pkg/handshake"
	"github.com/feedbridge/feedbridge/pkg/launcher"
)

// Version is the release version reported to MCP clients.
const Version = "0.3.0"

// Bridge is the high-level entry point: it owns the scratch directory, the
// dialog launcher and the request handler, and turns a prompt into a
// domain.Response.
type Bridge struct {
	scratchDir    string
	dialogCommand []string
	timeout       time.Duration
	passthrough   []string
	legacyTitle   string
	legacyTimeout int
	logger        *slog.Logger
	observer      bridge.Observer

	handler *bridge.Handler
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithScratchDir sets the directory handshake files are created in.
func WithScratchDir(dir string) Option {
	return func(b *Bridge) { b.scratchDir = dir }
}

// WithDialogCommand overrides the argv used to spawn the dialog subprocess.
func WithDialogCommand(command []string) Option {
	return func(b *Bridge) { b.dialogCommand = command }
}

// WithTimeout bounds how long the dialog may stay open. Zero disables the
// deadline entirely.
func WithTimeout(d time.Duration) Option {
	return func(b *Bridge) { b.timeout = d }
}

// WithPassthrough sets the host environment variables forwarded to the
// dialog subprocess.
func WithPassthrough(names []string) Option {
	return func(b *Bridge) { b.passthrough = names }
}

// WithLegacyDialogFields forwards the old per-deployment title and timeout
// variables to dialog builds that still read them.
func WithLegacyDialogFields(title string, timeoutMS int) Option {
	return func(b *Bridge) {
		b.legacyTitle = title
		b.legacyTimeout = timeoutMS
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) { b.logger = logger }
}

// WithObserver registers a per-request metrics observer.
func WithObserver(o bridge.Observer) Option {
	return func(b *Bridge) { b.observer = o }
}

// New wires up a Bridge. By default the dialog subprocess is this same
// binary re-executed with the "dialog" subcommand.
func New(opts ...Option) (*Bridge, error) {
	b := &Bridge{
		timeout: 10 * time.Minute,
		passthrough: []string{
			"DISPLAY", "WAYLAND_DISPLAY", "XAUTHORITY",
			"DBUS_SESSION_BUS_ADDRESS", "XDG_RUNTIME_DIR",
			"HOME", "PATH", "LANG", "LC_ALL", "TERM", "TMPDIR",
			"FEEDBRIDGE_ATTACH",
		},
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = logging.NewNop()
	}

	if len(b.dialogCommand) == 0 {
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve own executable for dialog command: %w", err)
		}
		b.dialogCommand = []string{self, "dialog"}
	}

	store, err := handshake.NewStore(b.scratchDir, b.logger)
	if err != nil {
		return nil, err
	}

	launch, err := launcher.New(b.dialogCommand, b.timeout, b.logger)
	if err != nil {
		return nil, err
	}

	b.handler = bridge.NewHandler(bridge.Options{
		Store:       store,
		Launcher:    launch,
		Passthrough: b.passthrough,
		Title:       b.legacyTitle,
		TimeoutMS:   b.legacyTimeout,
		Logger:      b.logger,
		Observer:    b.observer,
	})
	return b, nil
}

// Collect asks the user one question and blocks until a terminal status.
func (b *Bridge) Collect(ctx context.Context, req domain.Request) domain.Response {
	return b.handler.Collect(ctx, req)
}
