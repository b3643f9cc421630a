package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileMode is the permission of files written by AtomicWriter.
const FileMode os.FileMode = 0644

// AtomicWriter writes a file through a temporary sibling and a rename, so
// readers never observe a partially written target.
type AtomicWriter struct {
	path    string
	tmpPath string
	file    *os.File
}

// NewAtomicWriter creates a writer for atomic file updates. Parent
// directories of path are created as needed.
func NewAtomicWriter(path string) (*AtomicWriter, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".ytlikes-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	// CreateTemp uses 0600; committed files get regular permissions.
	if err := tmpFile.Chmod(FileMode); err != nil {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return nil, fmt.Errorf("chmod temp file: %w", err)
	}

	return &AtomicWriter{
		path:    path,
		tmpPath: tmpFile.Name(),
		file:    tmpFile,
	}, nil
}

// Write writes data to the temporary file.
func (w *AtomicWriter) Write(p []byte) (n int, err error) {
	return w.file.Write(p)
}

// Chmod changes the mode the target will have once committed.
func (w *AtomicWriter) Chmod(mode os.FileMode) error {
	return w.file.Chmod(mode)
}

// Commit syncs the temporary file and renames it over the target.
func (w *AtomicWriter) Commit() error {
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(w.tmpPath, w.path); err != nil {
		os.Remove(w.tmpPath)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Abort discards the temporary file without committing.
func (w *AtomicWriter) Abort() error {
	w.file.Close()
	return os.Remove(w.tmpPath)
}

// WriteFileAtomic replaces path with data in one step.
func WriteFileAtomic(path string, data []byte) error {
	w, err := NewAtomicWriter(path)
	if err != nil {
		return &StorageError{Op: "write", Entity: "file", ID: path, Err: err}
	}
	if _, err := w.Write(data); err != nil {
		w.Abort()
		return &StorageError{Op: "write", Entity: "file", ID: path, Err: err}
	}
	if err := w.Commit(); err != nil {
		return &StorageError{Op: "write", Entity: "file", ID: path, Err: err}
	}
	return nil
}
