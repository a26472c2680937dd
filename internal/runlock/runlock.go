package runlock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked means another run still holds the lock.
var ErrLocked = errors.New("another run is in progress")

func DefaultPath() string {
	return filepath.Join(os.TempDir(), "job-alerts.lock")
}

// Lock is held for the duration of one run so overlapping cron triggers do
// not send duplicate digests.
type Lock struct {
	fl *flock.Flock
}

func Acquire(path string) (*Lock, error) {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return nil, ErrLocked
	}
	return &Lock{fl: fl}, nil
}

func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}

func (l *Lock) Path() string {
	return l.fl.Path()
}
