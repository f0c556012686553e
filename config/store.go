package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// ErrNoTarget is returned by Store.Load when no sync target has been
// configured yet.
var ErrNoTarget = errors.New("no sync target configured")

// Store persists the sync-target record.
type Store interface {
	// Load returns the configured target, or ErrNoTarget if none exists.
	Load() (*Target, error)

	// Save persists the target, replacing any previous record.
	Save(target *Target) error
}

// defaultStorePath is the file location below the user config directory.
const defaultStorePath = "vaultsync/target.yaml"

// FileStore persists the target as a YAML file. The file holds the remote
// credential, so it is written with owner-only permissions.
type FileStore struct {
	path string
}

// NewFileStore creates a file store at path. When path is empty the record
// lives in the user's config directory.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		resolved, err := xdg.ConfigFile(defaultStorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		path = resolved
	}
	return &FileStore{path: path}, nil
}

// Path returns the file location backing this store.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and decodes the target record.
func (s *FileStore) Load() (*Target, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoTarget
		}
		return nil, fmt.Errorf("failed to read sync target: %w", err)
	}

	var target Target
	if err := yaml.Unmarshal(raw, &target); err != nil {
		return nil, fmt.Errorf("failed to decode sync target: %w", err)
	}
	return &target, nil
}

// Save encodes and writes the target record.
func (s *FileStore) Save(target *Target) error {
	if target == nil {
		return errors.New("target cannot be nil")
	}

	raw, err := yaml.Marshal(target)
	if err != nil {
		return fmt.Errorf("failed to encode sync target: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write sync target: %w", err)
	}
	return nil
}

// MemStore keeps the target in memory. Intended for tests.
type MemStore struct {
	mu     sync.Mutex
	target *Target
}

// NewMemStore creates an in-memory store, optionally seeded with a target.
func NewMemStore(target *Target) *MemStore {
	s := &MemStore{}
	if target != nil {
		copied := *target
		s.target = &copied
	}
	return s
}

// Load returns a copy of the stored target, or ErrNoTarget.
func (s *MemStore) Load() (*Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.target == nil {
		return nil, ErrNoTarget
	}
	copied := *s.target
	return &copied, nil
}

// Save stores a copy of the target.
func (s *MemStore) Save(target *Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if target == nil {
		return errors.New("target cannot be nil")
	}
	copied := *target
	s.target = &copied
	return nil
}
