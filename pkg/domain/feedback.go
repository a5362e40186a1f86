package domain

import "time"

// Request is the input to the bridge, decoded from the tool call arguments.
type Request struct {
	Prompt string `json:"prompt" yaml:"prompt" mapstructure:"prompt"` // Text shown to the user
}

// Image is an inline attachment pasted or picked in the dialog.
type Image struct {
	Data     string `json:"data" mapstructure:"data"`         // Base64-encoded bytes
	MimeType string `json:"mimeType" mapstructure:"mimeType"` // e.g. "image/png"
}

// Record is the handshake payload the dialog subprocess writes to its output
// file as the last action before exiting. The host reads it exactly once and
// removes it regardless of outcome.
type Record struct {
	Feedback  string  `json:"feedback"`
	Timestamp int64   `json:"timestamp"` // Epoch milliseconds
	Cancelled bool    `json:"cancelled,omitempty"`
	Images    []Image `json:"images,omitempty"`
}

// NewRecord builds a Record stamped with the current time.
func NewRecord(feedback string, cancelled bool, images []Image) Record {
	return Record{
		Feedback:  feedback,
		Timestamp: time.Now().UnixMilli(),
		Cancelled: cancelled,
		Images:    images,
	}
}

// Status classifies the terminal outcome of one feedback request.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
	StatusTimeout   Status = "timeout"
	StatusCancelled Status = "cancelled"
)

// Response is the uniform shape returned to the caller. Error is populated
// iff Status is not StatusSuccess; nothing else crosses the tool boundary.
type Response struct {
	Feedback string  `json:"feedback"`
	Status   Status  `json:"status"`
	Error    string  `json:"error,omitempty"`
	Images   []Image `json:"images,omitempty"`
}

// ErrorResponse builds an error-status Response from an error value.
func ErrorResponse(err error) Response {
	return Response{Status: StatusError, Error: err.Error()}
}
