package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

const lockTimeout = 5 * time.Second

// JSONProfileStore implements ProfileStore on top of a JSON array of names.
// The backing file is locked for the lifetime of the store.
type JSONProfileStore struct {
	path     string
	lock     *FileLock
	profiles []string
	mu       sync.RWMutex
}

// NewJSONProfileStore opens the registry at path. A missing file is created
// holding an empty list.
func NewJSONProfileStore(path string) (*JSONProfileStore, error) {
	s := &JSONProfileStore{
		path: path,
		lock: NewFileLock(path),
	}

	if err := s.lock.Lock(lockTimeout); err != nil {
		return nil, err
	}

	if err := s.load(); err != nil {
		s.lock.Unlock()
		return nil, err
	}

	return s, nil
}

func (s *JSONProfileStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.profiles = []string{}
			return s.save()
		}
		return &StorageError{Op: "read", Entity: "profiles", Err: err}
	}

	var profiles []string
	if err := json.Unmarshal(data, &profiles); err != nil {
		return &StorageError{Op: "read", Entity: "profiles", Err: fmt.Errorf("%w: %v", ErrStorageCorrupt, err)}
	}
	if profiles == nil {
		profiles = []string{}
	}
	s.profiles = profiles
	return nil
}

func (s *JSONProfileStore) save() error {
	w, err := NewAtomicWriter(s.path)
	if err != nil {
		return &StorageError{Op: "write", Entity: "profiles", Err: err}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(s.profiles); err != nil {
		w.Abort()
		return &StorageError{Op: "write", Entity: "profiles", Err: err}
	}

	if err := w.Commit(); err != nil {
		return &StorageError{Op: "write", Entity: "profiles", Err: err}
	}
	return nil
}

// ListProfiles returns a copy of the registered profile names.
func (s *JSONProfileStore) ListProfiles(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.profiles), nil
}

// CreateProfile appends profile to the registry and persists it.
func (s *JSONProfileStore) CreateProfile(ctx context.Context, profile string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateProfileName(profile); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.profiles, profile) {
		return nil
	}
	s.profiles = append(s.profiles, profile)
	if err := s.save(); err != nil {
		s.profiles = s.profiles[:len(s.profiles)-1]
		return err
	}
	return nil
}

// HasProfile reports whether profile is registered.
func (s *JSONProfileStore) HasProfile(ctx context.Context, profile string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.profiles, profile), nil
}

// Close releases the file lock.
func (s *JSONProfileStore) Close() error {
	return s.lock.Unlock()
}

// ValidateProfileName rejects names that cannot be used as a file stem.
func ValidateProfileName(profile string) error {
	if strings.TrimSpace(profile) == "" {
		return &StorageError{Op: "create", Entity: "profiles", Err: fmt.Errorf("%w: empty profile name", ErrInvalidInput)}
	}
	if strings.ContainsAny(profile, `/\`) || profile == "." || profile == ".." {
		return &StorageError{Op: "create", Entity: "profiles", ID: profile, Err: fmt.Errorf("%w: profile name must not contain path separators", ErrInvalidInput)}
	}
	return nil
}
