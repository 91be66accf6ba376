// Package snapshot holds the most recent refresh result in memory for the
// HTTP layer. Each LoadBatch replaces the previous marker set wholesale.
package snapshot

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/jonboulle/clockwork"
)

// Store is a thread-safe holder of the latest markers and overlay.
// It implements pipeline.BatchLoader and pipeline.OverlayLoader.
type Store struct {
	mu          sync.RWMutex
	markers     []domain.Marker
	overlay     json.RawMessage
	refreshedAt time.Time
	clock       clockwork.Clock
}

// New creates an empty Store. A nil clock uses real time.
func New(clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{clock: clock}
}

func (s *Store) LoadBatch(_ context.Context, markers []domain.Marker) error {
	cp := make([]domain.Marker, len(markers))
	copy(cp, markers)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers = cp
	s.refreshedAt = s.clock.Now().UTC()
	return nil
}

func (s *Store) LoadOverlay(_ context.Context, doc json.RawMessage) error {
	cp := make(json.RawMessage, len(doc))
	copy(cp, doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = cp
	return nil
}

// Markers returns the latest markers and when they were loaded. The zero
// time means no refresh has completed yet.
func (s *Store) Markers() ([]domain.Marker, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.markers, s.refreshedAt
}

// Overlay returns the plate boundaries document, or nil if none was loaded.
func (s *Store) Overlay() json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlay
}
