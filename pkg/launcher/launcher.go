// Package launcher starts the user-facing dialog process and resolves its
// outcome deterministically: the process either exits, fails to start, or is
// killed when the deadline fires. Exactly one of those happens per run.
package launcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/feedbridge/feedbridge/pkg/domain"
)

// Environment variable names forming the contract with the dialog
// subprocess. The prompt and output file are always set; title and timeout
// are legacy fields honored when configured.
const (
	EnvPrompt     = "FEEDBRIDGE_PROMPT"
	EnvOutputFile = "FEEDBRIDGE_OUTPUT_FILE"
	EnvTitle      = "FEEDBRIDGE_TITLE"
	EnvTimeoutMS  = "FEEDBRIDGE_TIMEOUT_MS"
)

// Outcome is the terminal state of one launch.
type Outcome string

const (
	// OutcomeCompleted means the process exited 0; the handshake file holds
	// the result (submission or cancellation).
	OutcomeCompleted Outcome = "completed"
	// OutcomeFailed means spawn failed or the process exited nonzero.
	OutcomeFailed Outcome = "failed"
	// OutcomeTimedOut means the deadline fired first and the process was
	// killed.
	OutcomeTimedOut Outcome = "timed_out"
)

// Result carries the outcome plus captured output for diagnostics. Stdout
// and stderr are logged, never parsed for control decisions.
type Result struct {
	Outcome  Outcome
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// Launcher spawns the dialog command with an explicit environment map
// scoped to a single invocation. It never reads ambient process state.
type Launcher struct {
	command []string
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a Launcher for the given argv. A zero timeout means the
// process may run indefinitely.
func New(command []string, timeout time.Duration, logger *slog.Logger) (*Launcher, error) {
	if len(command) == 0 {
		return nil, fmt.Errorf("dialog command is empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{command: command, timeout: timeout, logger: logger}, nil
}

// Run executes the dialog process with env as its entire environment.
//
// A missing executable is a configuration error returned directly (wrapping
// domain.ErrDialogNotFound) before any spawn is attempted. Every other
// failure mode is encoded in the Result.
func (l *Launcher) Run(ctx context.Context, env map[string]string) (Result, error) {
	path, err := exec.LookPath(l.command[0])
	if err != nil {
		return Result{}, fmt.Errorf("%w: %q (searched PATH): %v", domain.ErrDialogNotFound, l.command[0], err)
	}

	cmd := exec.Command(path, l.command[1:]...)
	cmd.Env = flattenEnv(env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Result{
			Outcome: OutcomeFailed,
			Err:     fmt.Errorf("failed to spawn dialog process: %w", err),
		}, nil
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var deadline <-chan time.Time
	if l.timeout > 0 {
		timer := time.NewTimer(l.timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case waitErr := <-done:
		return l.resolve(waitErr, &stdout, &stderr), nil

	case <-deadline:
		l.logger.Warn("dialog timed out, killing process", "timeout", l.timeout)
		_ = cmd.Process.Kill()
		<-done // reap; no dangling subprocess
		return Result{
			Outcome: OutcomeTimedOut,
			Stdout:  stdout.String(),
			Stderr:  stderr.String(),
			Err:     fmt.Errorf("dialog did not complete within %s", l.timeout),
		}, nil

	case <-ctx.Done():
		l.logger.Warn("request cancelled, killing dialog process", "err", ctx.Err())
		_ = cmd.Process.Kill()
		<-done
		return Result{
			Outcome: OutcomeFailed,
			Stdout:  stdout.String(),
			Stderr:  stderr.String(),
			Err:     ctx.Err(),
		}, nil
	}
}

// resolve maps a Wait error to a Result and forwards captured output to the
// log sink.
func (l *Launcher) resolve(waitErr error, stdout, stderr *bytes.Buffer) Result {
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if out := strings.TrimSpace(result.Stdout); out != "" {
		l.logger.Debug("dialog stdout", "output", out)
	}
	if out := strings.TrimSpace(result.Stderr); out != "" {
		l.logger.Debug("dialog stderr", "output", out)
	}

	if waitErr == nil {
		result.Outcome = OutcomeCompleted
		return result
	}

	result.Outcome = OutcomeFailed
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		result.Err = fmt.Errorf("dialog exited with code %d: stderr: %s",
			exitErr.ExitCode(), strings.TrimSpace(result.Stderr))
		return result
	}

	result.Err = fmt.Errorf("dialog process failed: %w", waitErr)
	return result
}

// flattenEnv converts the map to the KEY=VALUE form exec.Cmd expects, in a
// stable order.
func flattenEnv(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	flat := make([]string, 0, len(keys))
	for _, k := range keys {
		flat = append(flat, fmt.Sprintf("%s=%s", k, env[k]))
	}
	return flat
}
