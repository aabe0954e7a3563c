package lifecycle

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the shadow tree lock.
var ErrLocked = errors.New("shadow tree is in use by another process")

// Lock is a cross-process lock on a shadow tree. The lock file sits next to
// the tree, never inside it, so purging the tree keeps the lock intact.
type Lock struct {
	flock *flock.Flock
}

// LockPath returns the lock file path for cache.
func LockPath(cache string) string {
	return filepath.Clean(cache) + ".lock"
}

// Acquire takes the lock for cache without blocking.
func Acquire(cache string) (*Lock, error) {
	path := LockPath(cache)

	fl := flock.New(path)

	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	return &Lock{flock: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.flock.Path()
}

// Release unlocks the lock. The lock file itself is left in place.
func (l *Lock) Release() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("unlocking %s: %w", l.flock.Path(), err)
	}

	return nil
}
