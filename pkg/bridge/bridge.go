// Package bridge orchestrates one feedback request end to end: validation,
// handshake setup, dialog launch, result interpretation and cleanup. Every
// failure path is normalized into a domain.Response; nothing is returned as
// an error across the tool boundary.
package bridge

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/feedbridge/feedbridge/pkg/domain"
	"github.com/feedbridge/feedbridge/pkg/handshake"
	"github.com/feedbridge/feedbridge/pkg/launcher"
)

// Observer is notified once per request with its terminal status.
type Observer interface {
	ObserveRequest(status domain.Status, elapsed time.Duration)
}

// Options wires the handler's collaborators.
type Options struct {
	Store    *handshake.Store
	Launcher *launcher.Launcher

	// Passthrough lists host environment variables copied into the dialog
	// subprocess (display server access, PATH, locale).
	Passthrough []string

	// Title and TimeoutMS are legacy dialog fields forwarded verbatim when
	// set; current dialog builds ignore them.
	Title     string
	TimeoutMS int

	Logger   *slog.Logger
	Observer Observer
}

// Handler drives feedback requests. Safe for concurrent use: each request
// gets its own handshake path and subprocess, and the handler itself holds
// no per-request state.
type Handler struct {
	opts Options
}

// NewHandler validates the wiring and returns a Handler.
func NewHandler(opts Options) *Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Handler{opts: opts}
}

// Collect runs one feedback request. It always returns a terminal Response;
// the caller decides whether to re-invoke, there are no retries here.
func (h *Handler) Collect(ctx context.Context, req domain.Request) (resp domain.Response) {
	start := time.Now()
	if h.opts.Observer != nil {
		defer func() { h.opts.Observer.ObserveRequest(resp.Status, time.Since(start)) }()
	}

	// Reject before any side effect: no subprocess, no file.
	if strings.TrimSpace(req.Prompt) == "" {
		return domain.ErrorResponse(domain.ErrEmptyPrompt)
	}

	path := h.opts.Store.NewPath()
	// Cleanup runs on every exit path below, including panics unwinding.
	defer h.opts.Store.Remove(path)

	result, err := h.opts.Launcher.Run(ctx, h.buildEnv(req.Prompt, path))
	if err != nil {
		// Configuration error raised before spawn (dialog binary missing).
		h.opts.Logger.Error("dialog launch rejected", "err", err)
		return domain.ErrorResponse(err)
	}

	switch result.Outcome {
	case launcher.OutcomeTimedOut:
		h.opts.Logger.Warn("feedback request timed out")
		return domain.Response{Status: domain.StatusTimeout, Error: result.Err.Error()}

	case launcher.OutcomeFailed:
		h.opts.Logger.Error("dialog failed", "exit_code", result.ExitCode, "err", result.Err)
		return domain.ErrorResponse(result.Err)
	}

	// Exit code 0: the record tells submission apart from cancellation.
	record, err := h.opts.Store.Read(path)
	if err != nil {
		h.opts.Logger.Error("dialog exited cleanly but left no readable record", "err", err)
		return domain.ErrorResponse(err)
	}

	if record.Cancelled {
		return domain.Response{
			Status: domain.StatusCancelled,
			Error:  "user closed the dialog without submitting",
		}
	}

	return domain.Response{
		Feedback: record.Feedback,
		Status:   domain.StatusSuccess,
		Images:   record.Images,
	}
}

// buildEnv assembles the subprocess environment: the handshake contract
// variables plus whatever display plumbing the host carries.
func (h *Handler) buildEnv(prompt, path string) map[string]string {
	env := map[string]string{
		launcher.EnvPrompt:     prompt,
		launcher.EnvOutputFile: path,
	}
	if h.opts.Title != "" {
		env[launcher.EnvTitle] = h.opts.Title
	}
	if h.opts.TimeoutMS > 0 {
		env[launcher.EnvTimeoutMS] = strconv.Itoa(h.opts.TimeoutMS)
	}
	for _, name := range h.opts.Passthrough {
		if value, ok := os.LookupEnv(name); ok {
			env[name] = value
		}
	}
	return env
}
