package cart

import (
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Mirror is the durable storage port for cart state. Load returns the last
// saved snapshot, or ok=false when nothing usable is stored. Save rewrites
// the whole snapshot; it is called inside every mutation.
type Mirror interface {
	Load() (Snapshot, bool, error)
	Save(Snapshot) error
}

// Store is the authoritative client-side cart. All mutations recompute the
// aggregates and persist the full state to the mirror before returning.
//
// The original storefront ran cart mutations on a single UI thread; here the
// store is called from concurrent HTTP handlers, so a mutex serializes them.
type Store struct {
	mu     sync.Mutex
	mirror Mirror
	lines  []Line
	total  decimal.Decimal
	items  int
}

// NewStore creates a Store backed by the given mirror and restores the last
// persisted snapshot. A missing or corrupt mirror yields an empty cart
// rather than an error: losing a stale cart is preferable to refusing to
// start.
func NewStore(mirror Mirror) *Store {
	s := &Store{mirror: mirror, total: decimal.Zero}
	if snap, ok, err := mirror.Load(); err == nil && ok {
		s.lines = snap.Lines
		s.items, s.total = aggregate(s.lines)
	}
	return s
}

// Snapshot returns a copy of the current cart state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	lines := make([]Line, len(s.lines))
	copy(lines, s.lines)
	return Snapshot{Lines: lines, TotalItems: s.items, TotalAmount: s.total}
}

// Add adds delta units of a variation. An existing line keeps its originally
// captured unit price; only the quantity and line total change. A new
// variation is appended preserving insertion order. Delta must be positive.
func (s *Store) Add(variationID, name, label string, unitPrice decimal.Decimal, delta int) error {
	if delta <= 0 {
		return errors.Errorf("quantity delta must be positive, got %d", delta)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(variationID); i >= 0 {
		l := s.lines[i]
		l.Quantity += delta
		l.LineTotal = lineTotal(l.UnitPrice, l.Quantity)
		s.lines[i] = l
	} else {
		s.lines = append(s.lines, Line{
			VariationID: variationID,
			Name:        name,
			Label:       label,
			UnitPrice:   unitPrice,
			Quantity:    delta,
			LineTotal:   lineTotal(unitPrice, delta),
		})
	}

	return s.commitLocked()
}

// Remove deletes the line for variationID regardless of quantity. Removing
// an absent variation is a no-op.
func (s *Store) Remove(variationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(variationID)
	if i < 0 {
		return nil
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)

	return s.commitLocked()
}

// Decrement reduces the line quantity by one, removing the line entirely when
// the quantity would reach zero.
func (s *Store) Decrement(variationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(variationID)
	if i < 0 {
		return nil
	}

	l := s.lines[i]
	if l.Quantity <= 1 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	} else {
		l.Quantity--
		l.LineTotal = lineTotal(l.UnitPrice, l.Quantity)
		s.lines[i] = l
	}

	return s.commitLocked()
}

// SetQuantity overwrites the line quantity. A quantity of zero or less drops
// the line; the cart never holds non-positive quantities.
func (s *Store) SetQuantity(variationID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(variationID)
	if i < 0 {
		return nil
	}

	if quantity <= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	} else {
		l := s.lines[i]
		l.Quantity = quantity
		l.LineTotal = lineTotal(l.UnitPrice, quantity)
		s.lines[i] = l
	}

	return s.commitLocked()
}

// Clear empties the cart and persists the empty state.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil

	return s.commitLocked()
}

// commitLocked recomputes aggregates and rewrites the mirror. Callers must
// hold s.mu.
func (s *Store) commitLocked() error {
	s.items, s.total = aggregate(s.lines)
	if err := s.mirror.Save(s.snapshotLocked()); err != nil {
		return errors.Wrap(err, "persist cart")
	}
	return nil
}

// indexLocked returns the index of the line for variationID, or -1.
func (s *Store) indexLocked(variationID string) int {
	for i, l := range s.lines {
		if l.VariationID == variationID {
			return i
		}
	}
	return -1
}
