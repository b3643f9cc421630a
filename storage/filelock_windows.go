//go:build windows

package storage

import (
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/windows"
)

// FileLock is an advisory cross-process lock backed by LockFileEx.
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
		if err = lockFile(l.file); err == nil {
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
	unlockFile(l.file)
	l.file.Close()
	os.Remove(l.path)
	l.file = nil
	return nil
}

func lockFile(f *os.File) error {
	var overlapped windows.Overlapped
	return windows.LockFileEx(
		windows.Handle(f.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		0,
		1,
		0,
		&overlapped,
	)
}

func unlockFile(f *os.File) error {
	var overlapped windows.Overlapped
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, 1, 0, &overlapped)
}
