// Package history persists the append-only interaction log.
//
// The log is a single JSON array in data/history.json, rewritten in full on
// every append. The file must already exist and hold a valid JSON array
// (e.g. "[]") before first run; a missing or corrupt file is a fatal fault,
// there is no backup or rotation scheme. Records are never updated or
// removed — insertion order is chronological order.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Record is one logged interaction.
type Record struct {
	// CreatedAt is the press release time in ISO-8601 form.
	CreatedAt string `json:"createdAt"`

	// Caption is the generated caption, or the fixed fallback string when
	// captioning degraded.
	Caption string `json:"caption"`

	// Filename is the relative path of the captured photo.
	Filename string `json:"filename"`
}

// Store reads and rewrites the history file. The process is single-threaded
// so no locking is needed; the only writer is the interaction pipeline.
type Store struct {
	path string
}

// NewStore returns a Store over the given history file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the underlying file path.
func (s *Store) Path() string { return s.path }

// Load reads the full log back.
func (s *Store) Load() ([]Record, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing history %s: %w", s.path, err)
	}
	return records, nil
}

// Append loads the log, appends r, and rewrites the file. The rewrite goes
// through a temp file in the same directory followed by a rename, so a
// crash mid-write leaves the previous log intact instead of a truncated
// array.
func (s *Store) Append(r Record) error {
	records, err := s.Load()
	if err != nil {
		return err
	}
	records = append(records, r)

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		return fmt.Errorf("creating temp history file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp history file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing history: %w", err)
	}
	return nil
}
