// Package json persists completed adaptation records as JSON files under a
// history directory, one file per record, nested by month.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pwalczak/stride"
)

// envelope is the v1 wire format for a persisted record.
type envelope struct {
	Version       int          `json:"version"`
	ID            string       `json:"id"`
	CreatedAt     time.Time    `json:"created_at"`
	Note          string       `json:"note"`
	RecoveryScore *float64     `json:"recovery_score,omitempty"`
	ThreadID      *int64       `json:"thread_id,omitempty"`
	Narrative     string       `json:"narrative"`
	Plan          *stride.Plan `json:"plan,omitempty"`
	Accepted      bool         `json:"accepted"`
}

// MarshalRecord serializes a Record to JSON in v1 envelope format.
func MarshalRecord(r stride.Record) ([]byte, error) {
	env := envelope{
		Version:       1,
		ID:            r.ID,
		CreatedAt:     r.CreatedAt,
		Note:          r.Note,
		RecoveryScore: r.RecoveryScore,
		ThreadID:      r.ThreadID,
		Narrative:     r.Narrative,
		Plan:          r.Plan,
		Accepted:      r.Accepted,
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalRecord deserializes a Record from JSON in v1 envelope format.
func UnmarshalRecord(data []byte) (stride.Record, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return stride.Record{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return stride.Record{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	return stride.Record{
		ID:            env.ID,
		CreatedAt:     env.CreatedAt,
		Note:          env.Note,
		RecoveryScore: env.RecoveryScore,
		ThreadID:      env.ThreadID,
		Narrative:     env.Narrative,
		Plan:          env.Plan,
		Accepted:      env.Accepted,
	}, nil
}

// Save writes a Record under dir, creating parent directories as needed.
// A missing ID is assigned and a zero CreatedAt is stamped before writing.
// The write is atomic: a temp file is renamed into place. Returns the path
// of the written file.
func Save(dir string, r stride.Record) (string, error) {
	if r.ID == "" {
		id, err := NewRecordID()
		if err != nil {
			return "", fmt.Errorf("assign record id: %w", err)
		}
		r.ID = id
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	data, err := MarshalRecord(r)
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}

	path := recordPath(dir, r)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return "", fmt.Errorf("rename temp file: %w", err)
	}
	return path, nil
}

// Load reads a Record from a JSON file.
func Load(path string) (stride.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return stride.Record{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalRecord(data)
}

// recordPath nests records by month so a long history stays navigable.
func recordPath(dir string, r stride.Record) string {
	return filepath.Join(dir, r.CreatedAt.UTC().Format("2006-01"), r.ID+".json")
}
