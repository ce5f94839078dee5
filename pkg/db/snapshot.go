package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mhartkopf/einsatzplan/pkg/core/model"
)

// Snapshot is the persisted shape of the store: plain arrays of every
// entity. Timestamps serialize as RFC 3339 strings and parse back into
// time.Time on load, so the engine always works on parsed values.
type Snapshot struct {
	Shifts         []model.Shift         `json:"shifts"`
	Users          []model.User          `json:"users"`
	Teams          []model.Team          `json:"teams"`
	Locations      []model.Location      `json:"locations"`
	Qualifications []model.Qualification `json:"qualifications"`
	Events         []model.Event         `json:"events"`
	Absences       []model.Absence       `json:"absences"`
	ChangeRequests []model.ChangeRequest `json:"changeRequests"`
}

// FilePersister writes snapshots to a JSON file. The write goes through a
// temp file and rename so a crash mid-write never truncates the data file.
type FilePersister struct {
	Path string
}

// NewFilePersister creates a persister writing to the given path
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{Path: path}
}

// Persist writes the snapshot as indented JSON
func (p *FilePersister) Persist(ctx context.Context, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(p.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp := p.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	if err := os.Rename(tmp, p.Path); err != nil {
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}

	return nil
}

// Load reads a snapshot back from the data file. A missing file is not an
// error; it yields an empty snapshot so a fresh installation starts clean.
func (p *FilePersister) Load(ctx context.Context) (Snapshot, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse snapshot file: %w", err)
	}

	return snap, nil
}
