//go:build !windows

package storage

import (
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// FileLock is an advisory cross-process lock backed by flock(2).
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a lock guarding path. The lock file lives at
// path + ".lock" and is not acquired until Lock is called.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path + ".lock"}
}

// Lock acquires an exclusive lock, polling until timeout elapses.
// It returns ErrLockTimeout when another process keeps holding the lock.
func (l *FileLock) Lock(timeout time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return &StorageError{Op: "lock", Entity: "file", ID: l.path, Err: err}
	}

	var err error
	l.file, err = os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return &StorageError{Op: "lock", Entity: "file", ID: l.path, Err: err}
	}

	deadline := time.Now().Add(timeout)
	for {
		if err = syscall.Flock(int(l.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err == nil {
			return nil
		}
		if !time.Now().Before(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	l.file.Close()
	l.file = nil
	return ErrLockTimeout
}

// Unlock releases the lock and removes the lock file.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}
	syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	l.file.Close()
	os.Remove(l.path)
	l.file = nil
	return nil
}
