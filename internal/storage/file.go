// Package storage provides the appointment repository backends. All of
// them honor the same contract: Load returns the full persisted set (or
// an empty one on first run) and Save replaces it wholesale.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/saudeviva/clinic-scheduler/internal/scheduling"
)

// FileStore persists the appointment set as a single UTF-8 JSON
// document on disk.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = "appointments.json"
	}
	return &FileStore{path: path}
}

// Load reads the persisted set. A missing file means no state has been
// persisted yet and yields an empty set.
func (s *FileStore) Load(ctx context.Context) ([]scheduling.Appointment, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []scheduling.Appointment{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", s.path, err)
	}

	var appointments []scheduling.Appointment
	if err := json.Unmarshal(data, &appointments); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", s.path, err)
	}
	return appointments, nil
}

// Save rewrites the whole document with the given set.
func (s *FileStore) Save(ctx context.Context, appointments []scheduling.Appointment) error {
	data, err := json.MarshalIndent(appointments, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode appointments: %w", err)
	}
	if err := os.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", s.path, err)
	}
	return nil
}

var _ scheduling.Repository = (*FileStore)(nil)
