package app

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// InstanceLock guards against two fnug processes running against the same
// config directory at once, using gofrs/flock for portability across
// platforms.
type InstanceLock struct {
	fl *flock.Flock
}

// AcquireLock takes an exclusive, non-blocking lock on a file inside dir.
// When another instance already holds the lock it returns a plain error
// naming dir; an error from the lock attempt itself is wrapped.
func AcquireLock(dir string) (*InstanceLock, error) {
	path := filepath.Join(dir, ".fnug.lock")
	fl := flock.New(path)

	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring instance lock at %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("another fnug instance is already running against %s", dir)
	}
	return &InstanceLock{fl: fl}, nil
}

// Release unlocks the lock file; the file itself is left in place.
func (l *InstanceLock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
