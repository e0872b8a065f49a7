// Package memory provides an in-memory cart mirror for tests and ephemeral
// kiosks that should not keep cart state across restarts.
package memory

import (
	"sync"

	"github.com/kusina/kiosk/internal/domain/cart"
)

// Mirror keeps the last saved snapshot in memory.
type Mirror struct {
	mu    sync.Mutex
	snap  cart.Snapshot
	saved bool

	// SaveErr, when set, is returned by Save. Tests use it to exercise
	// persistence failure paths.
	SaveErr error
}

var _ cart.Mirror = (*Mirror)(nil)

// New returns an empty Mirror.
func New() *Mirror {
	return &Mirror{}
}

// Seed pre-populates the mirror as if a previous session had saved snap.
func Seed(snap cart.Snapshot) *Mirror {
	return &Mirror{snap: snap, saved: true}
}

// Load returns the last saved snapshot, if any.
func (m *Mirror) Load() (cart.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, m.saved, nil
}

// Save stores the snapshot.
func (m *Mirror) Save(snap cart.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.snap = snap
	m.saved = true
	return nil
}
