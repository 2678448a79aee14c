// Package store holds the current station group artifact in memory and on disk.
package store

import (
	"sync"

	"stationgroups.onebusaway.org/internal/models"
)

// ArtifactStore is a thread-safe holder for the artifact being served.
// Artifacts are immutable once stored; Set swaps the whole value so readers
// see either the previous build or the new one, never a mix.
type ArtifactStore struct {
	mu       sync.RWMutex
	artifact *models.Artifact
}

// NewArtifactStore initializes and returns an empty ArtifactStore.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{}
}

// Set replaces the current artifact.
func (s *ArtifactStore) Set(artifact *models.Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifact = artifact
}

// Get returns the current artifact and whether one has been stored.
// Callers must not modify the returned value.
func (s *ArtifactStore) Get() (*models.Artifact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.artifact, s.artifact != nil
}
