package domain

import "errors"

// ErrEmptyPrompt is returned when a request arrives without a prompt.
// It is detected before any subprocess is spawned or file created.
var ErrEmptyPrompt = errors.New("prompt is required and must be non-empty")

// ErrRecordUnreadable is returned when the handshake file is missing or not
// valid JSON after the dialog exited cleanly.
var ErrRecordUnreadable = errors.New("handshake record unreadable")

// ErrDialogNotFound is returned when the configured dialog executable cannot
// be located. This is a configuration error, not a launch outcome.
var ErrDialogNotFound = errors.New("dialog executable not found")
