// Package lock provides file-based run locking for ModelCheck.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrLockHeld is returned when the lock file already exists because
// another run is in progress or a previous run died without cleanup.
var ErrLockHeld = errors.New("run lock is held")

// LockFileName is the name of the lock file created in the output
// directory.
const LockFileName = ".modelcheck.lock"

// RunLock prevents concurrent runs from writing the same report
// directory. The lock is a file created with O_EXCL; whoever creates it
// owns the run. A crash leaves the file behind, which ForceAcquire
// clears.
type RunLock struct {
	path string
	held bool
}

// NewRunLock creates a run lock for the given output directory. The
// lock is not acquired until TryAcquire is called.
func NewRunLock(dir string) *RunLock {
	return &RunLock{
		path: filepath.Join(dir, LockFileName),
		held: false,
	}
}

// TryAcquire attempts to create the lock file without waiting.
// Returns true if the lock was acquired, false if another run holds it.
// Returns an error only for filesystem failures.
func (l *RunLock) TryAcquire() (bool, error) {
	if l.held {
		return true, nil // Already holding the lock
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create lock file: %w", err)
	}

	fmt.Fprintf(f, "pid=%d\nstarted=%s\n", os.Getpid(), time.Now().Format(time.RFC3339))
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("failed to write lock file: %w", err)
	}

	l.held = true
	return true, nil
}

// AcquireOrFail attempts to acquire the lock and returns ErrLockHeld if
// another run owns it. The returned error names the lock file and, when
// readable, its holder.
func (l *RunLock) AcquireOrFail() error {
	acquired, err := l.TryAcquire()
	if err != nil {
		return err
	}
	if !acquired {
		if holder := l.Holder(); holder != "" {
			return fmt.Errorf("%w: %s exists (%s)", ErrLockHeld, l.path, holder)
		}
		return fmt.Errorf("%w: %s exists", ErrLockHeld, l.path)
	}
	return nil
}

// ForceAcquire removes any existing lock file and acquires a fresh one.
// Use only when the previous holder is known to be dead.
func (l *RunLock) ForceAcquire() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale lock file: %w", err)
	}
	l.held = false

	acquired, err := l.TryAcquire()
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("%w: %s reappeared during force acquire", ErrLockHeld, l.path)
	}
	return nil
}

// Release removes the lock file.
// Returns true if the lock was released, false if it was not held.
func (l *RunLock) Release() (bool, error) {
	if !l.held {
		return false, nil // Not holding the lock
	}

	if err := os.Remove(l.path); err != nil {
		if os.IsNotExist(err) {
			// Someone removed our lock file; nothing left to release.
			l.held = false
			return false, nil
		}
		return false, fmt.Errorf("failed to remove lock file: %w", err)
	}

	l.held = false
	return true, nil
}

// IsHeld returns true if this lock is currently held by this instance.
func (l *RunLock) IsHeld() bool {
	return l.held
}

// Path returns the lock file path.
func (l *RunLock) Path() string {
	return l.path
}

// Holder returns the first line of the lock file, typically the pid of
// the process that created it. Returns "" when the file is unreadable.
func (l *RunLock) Holder() string {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return ""
	}
	for i, b := range data {
		if b == '\n' {
			return string(data[:i])
		}
	}
	return string(data)
}

// WithLock executes fn while holding the run lock, releasing it even if
// fn panics.
//
// Returns ErrLockHeld if another run owns the lock, otherwise whatever
// fn returns.
func (l *RunLock) WithLock(fn func() error) error {
	if err := l.AcquireOrFail(); err != nil {
		return err
	}

	defer func() {
		if _, releaseErr := l.Release(); releaseErr != nil {
			// The stale file will surface on the next run and can be
			// cleared with ForceAcquire.
			_ = releaseErr
		}
	}()

	return fn()
}
