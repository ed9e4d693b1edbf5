// Package lock keeps backup runs from overlapping across processes.
package lock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const fileName = "backup.lock"

type (
	Locker interface {
		TryLock() (bool, error)
		Unlock() error
	}

	FileLock struct {
		flock *flock.Flock
	}
)

// New places the lock file in the user cache dir, falling back to the
// temp dir when no cache dir is available.
func New() *FileLock {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}

	lockDir := filepath.Join(cacheDir, "mongopher")
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		lockDir = cacheDir
	}

	return NewInDir(lockDir)
}

func NewInDir(dir string) *FileLock {
	return &FileLock{
		flock: flock.New(filepath.Join(dir, fileName)),
	}
}

// TryLock returns false without blocking when another holder has the lock.
func (f *FileLock) TryLock() (bool, error) {
	locked, err := f.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("acquire %s: %w", f.flock.Path(), err)
	}
	return locked, nil
}

func (f *FileLock) Unlock() error {
	return f.flock.Unlock()
}

func (f *FileLock) Path() string {
	return f.flock.Path()
}
