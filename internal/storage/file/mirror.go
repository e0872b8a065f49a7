// Package file persists the cart snapshot as a single JSON document on disk,
// the kiosk equivalent of the browser's localStorage mirror.
package file

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"

	"github.com/kusina/kiosk/internal/domain/cart"
)

// Mirror stores the serialized cart under one well-known path. Writes go
// through a temp file plus rename so a crash mid-write never leaves a
// half-written document behind.
type Mirror struct {
	path string
}

var _ cart.Mirror = (*Mirror)(nil)

// New creates a Mirror writing to path. The parent directory is created if
// needed.
func New(path string) (*Mirror, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create mirror directory")
	}
	return &Mirror{path: path}, nil
}

// Load reads the last saved snapshot. A missing file or one that fails to
// parse yields ok=false with no error: a stale or corrupt mirror resets to
// an empty cart instead of blocking startup. Only unexpected I/O failures
// are reported.
func (m *Mirror) Load() (cart.Snapshot, bool, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return cart.Snapshot{}, false, nil
		}
		return cart.Snapshot{}, false, errors.Wrap(err, "read cart mirror")
	}

	var snap cart.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return cart.Snapshot{}, false, nil
	}
	return snap, true, nil
}

// Save rewrites the whole snapshot atomically.
func (m *Mirror) Save(snap cart.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "marshal cart snapshot")
	}

	tmp, err := os.CreateTemp(filepath.Dir(m.path), ".cart-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write cart mirror")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close cart mirror")
	}

	if err := os.Rename(tmp.Name(), m.path); err != nil {
		return errors.Wrap(err, "replace cart mirror")
	}
	return nil
}
