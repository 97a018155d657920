package lock

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

var ErrLocked = errors.New("another sync is running")

const FileName = ".font-sync.lock"

// Lock guards a base directory against concurrent syncs.
type Lock struct {
	f *flock.Flock
}

func New(dir string) *Lock {
	return &Lock{f: flock.New(filepath.Join(dir, FileName))}
}

// TryLock acquires the lock without blocking.
func (l *Lock) TryLock() error {
	ok, err := l.f.TryLock()
	if err != nil {
		return fmt.Errorf("locking %s: %w", l.f.Path(), err)
	}
	if !ok {
		return fmt.Errorf("%w: %s is held", ErrLocked, l.f.Path())
	}
	return nil
}

// Unlock releases the lock. The lock file stays on disk.
func (l *Lock) Unlock() error { return l.f.Unlock() }

func (l *Lock) Path() string { return l.f.Path() }
