// Package handshake implements the single-use, file-based message passing
// between the host and the dialog subprocess. Each request gets a freshly
// generated path inside a shared scratch directory, so no locking is needed
// between in-flight requests.
package handshake

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/feedbridge/feedbridge/pkg/domain"
)

// Store manages handshake records inside a scratch directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a Store rooted at dir and ensures the directory exists.
// If dir is empty, it defaults to "feedbridge" under the OS temp directory.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "feedbridge")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure scratch directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the scratch directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// NewPath returns a fresh handshake file path. Uniqueness comes from a uuid
// rather than a timestamp so two requests in the same millisecond cannot
// collide.
func (s *Store) NewPath() string {
	return filepath.Join(s.dir, fmt.Sprintf("feedback-%s.json", uuid.New().String()))
}

// Write serializes a record to path.
func (s *Store) Write(path string, record domain.Record) error {
	return WriteRecord(path, record)
}

// Read parses the record at path.
func (s *Store) Read(path string) (domain.Record, error) {
	return ReadRecord(path)
}

// WriteRecord serializes a record to path. The dialog subprocess calls this
// as its last action before exiting, which is what guarantees the host never
// observes a partial file after a clean exit.
func WriteRecord(path string, record domain.Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// ReadRecord parses the record at path. A missing, unreadable or malformed
// file is the "dialog never submitted" case and is reported via
// domain.ErrRecordUnreadable rather than retried.
func ReadRecord(path string) (domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Record{}, fmt.Errorf("%w: %v", domain.ErrRecordUnreadable, err)
	}
	var record domain.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.Record{}, fmt.Errorf("%w: %v", domain.ErrRecordUnreadable, err)
	}
	return record, nil
}

// Remove deletes the handshake file. Best effort: a failed delete is logged
// and swallowed so cleanup can never mask the primary result.
func (s *Store) Remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove handshake file", "path", path, "err", err)
	}
}
