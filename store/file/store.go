// Package file persists the game state as a single JSON document on disk.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/crownworks/kingdoms-server/model"
)

// Store writes the snapshot to a temp file and renames it over the target,
// so readers never observe a half-written document.
type Store struct {
	path string
}

// New creates a file store for the given path. The parent directory is
// created on first save.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the last saved snapshot. A missing file yields an empty snapshot.
func (s *Store) Load() (*model.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("file store: read %s: %w", s.path, err)
	}
	snap := &model.Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("file store: decode %s: %w", s.path, err)
	}
	snap.Normalize()
	return snap, nil
}

// Save replaces the stored document atomically (write temp, fsync, rename).
func (s *Store) Save(snap *model.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("file store: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("file store: temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("file store: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("file store: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file store: close: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("file store: rename: %w", err)
	}
	return nil
}
