// Package storage provides the on-disk layout of profiles and their registry.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for common storage conditions.
var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("storage: not found")
	// ErrInvalidInput indicates invalid or malformed input was provided.
	ErrInvalidInput = errors.New("storage: invalid input")
	// ErrStorageCorrupt indicates data corruption was detected.
	ErrStorageCorrupt = errors.New("storage: data corruption detected")
	// ErrLockTimeout indicates a timeout acquiring a file lock.
	ErrLockTimeout = errors.New("storage: lock acquisition timeout")
)

// StorageError wraps storage errors with operation and entity context.
// Use errors.As() to extract this error type and get operation details:
//
//	var storErr *storage.StorageError
//	if errors.As(err, &storErr) {
//		fmt.Printf("Failed to %s %s %s: %v\n", storErr.Op, storErr.Entity, storErr.ID, storErr.Err)
//	}
type StorageError struct {
	// Op is the operation that failed ("read", "write", "create", "lock").
	Op string
	// Entity is the entity type ("profiles", "likes", "file").
	Entity string
	// ID is the entity ID if applicable.
	ID string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the storage error.
func (e *StorageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("storage: %s %s %s: %v", e.Op, e.Entity, e.ID, e.Err)
	}
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Entity, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *StorageError) Unwrap() error { return e.Err }

// ProfileStore is the registry of known profiles.
type ProfileStore interface {
	// ListProfiles returns profile names in registration order.
	ListProfiles(ctx context.Context) ([]string, error)
	// CreateProfile registers a profile. Registering an existing profile is a no-op.
	CreateProfile(ctx context.Context, profile string) error
	// HasProfile reports whether the profile is registered.
	HasProfile(ctx context.Context, profile string) (bool, error)

	// Close releases any resources held by the store.
	Close() error
}
