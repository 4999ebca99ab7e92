// Package memory provides an in-process StateStore for tests.
package memory

import (
	"sync"

	"github.com/crownworks/kingdoms-server/model"
)

// Store keeps the snapshot in memory. It deep-copies on both Load and Save so
// callers cannot alias the stored document.
type Store struct {
	mu    sync.Mutex
	snap  *model.Snapshot
	saves int

	// FailNextSaves makes the next n Save calls return SaveErr; used to
	// exercise storage-failure paths in tests.
	FailNextSaves int
	SaveErr       error
}

// New creates an empty memory store.
func New() *Store {
	return &Store{}
}

func (s *Store) Load() (*model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return model.NewSnapshot(), nil
	}
	return s.snap.Clone(), nil
}

func (s *Store) Save(snap *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNextSaves > 0 {
		s.FailNextSaves--
		return s.SaveErr
	}
	s.snap = snap.Clone()
	s.saves++
	return nil
}

// Saves reports how many successful saves have happened.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
