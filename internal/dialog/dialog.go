// Package dialog implements the user-facing subprocess. It reads the prompt
// and output path from the environment, collects the user's answer through a
// native dialog (or a terminal fallback), writes the handshake record and
// exits. Writing the record is the last thing it does, so a clean exit
// always implies a complete file.
package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/term"

	"github.com/feedbridge/feedbridge/pkg/domain"
	"github.com/feedbridge/feedbridge/pkg/handshake"
	"github.com/feedbridge/feedbridge/pkg/launcher"
)

// EnvAttach, when set to a truthy value in the host environment (and listed
// in env_passthrough), enables the image attach step after the text entry.
const EnvAttach = "FEEDBRIDGE_ATTACH"

// DefaultTitle is the fixed window title; earlier revisions let callers
// override it, which survives via the legacy title variable.
const DefaultTitle = "Agent feedback"

// Run executes one dialog session based on the environment contract.
// A non-nil return makes the process exit nonzero, which the host surfaces
// as an error status; cancellation is not an error and travels in-band
// through the record instead.
func Run(ctx context.Context, logger *slog.Logger) error {
	prompt := os.Getenv(launcher.EnvPrompt)
	outPath := os.Getenv(launcher.EnvOutputFile)
	if outPath == "" {
		return fmt.Errorf("%s is not set; refusing to run without an output file", launcher.EnvOutputFile)
	}
	if prompt == "" {
		return fmt.Errorf("%s is not set", launcher.EnvPrompt)
	}

	title := os.Getenv(launcher.EnvTitle)
	if title == "" {
		title = DefaultTitle
	}

	// Legacy hosts pass their deadline down; expiry counts as the user not
	// answering, i.e. cancellation, not a malfunction.
	if raw := os.Getenv(launcher.EnvTimeoutMS); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(ms)*time.Millisecond)
			defer cancel()
		}
	}

	var record domain.Record
	var err error
	if hasDisplay() {
		record, err = collectNative(ctx, title, prompt, attachEnabled(), logger)
	} else if term.IsTerminal(int(os.Stdin.Fd())) {
		record, err = collectTerminal(title, prompt)
	} else {
		return fmt.Errorf("no display server and no terminal available")
	}
	if err != nil {
		return err
	}

	if err := handshake.WriteRecord(outPath, record); err != nil {
		return fmt.Errorf("failed to write handshake record: %w", err)
	}
	return nil
}

// hasDisplay reports whether a native dialog can render. macOS and Windows
// always can; on other systems an X11 or Wayland socket must be reachable.
func hasDisplay() bool {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func attachEnabled() bool {
	v := os.Getenv(EnvAttach)
	return v == "1" || v == "true" || v == "yes"
}
