package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// StoreLock is an advisory exclusive lock guarding the two store documents
// of a project directory, so concurrent invocations fail fast instead of
// silently racing with last-writer-wins.
type StoreLock struct {
	path string
	file *os.File
}

// NewStoreLock returns an unacquired lock for the project directory.
func NewStoreLock(dir string) *StoreLock {
	return &StoreLock{path: filepath.Join(dir, ".skills.lock")}
}

// Acquire blocks until the lock is held, the timeout elapses, or ctx is
// done.
func (l *StoreLock) Acquire(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("lock acquisition timeout: %s", l.path)
		}

		held, err := l.TryAcquire()
		if err != nil {
			return err
		}
		if held {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// TryAcquire attempts to take the lock without blocking.
func (l *StoreLock) TryAcquire() (bool, error) {
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return false, err
	}

	err = syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	if err != nil {
		file.Close()
		if err == syscall.EWOULDBLOCK {
			return false, nil
		}
		return false, err
	}

	l.file = file
	return true, nil
}

// Release drops the lock. Safe to call when not held.
func (l *StoreLock) Release() error {
	if l.file == nil {
		return nil
	}

	err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil

	if err != nil {
		return err
	}
	return closeErr
}

// IsHeld reports whether this process holds the lock.
func (l *StoreLock) IsHeld() bool {
	return l.file != nil
}
