package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultBranch is the branch used when the target does not name one.
const DefaultBranch = "main"

// Target is the persisted sync-target record. It is mutated only after a
// successful push, when the last-sync metadata is advanced.
type Target struct {
	// Credential is the bearer credential for the remote service.
	Credential string `yaml:"credential"`

	// Owner is the account that owns the remote repository.
	Owner string `yaml:"owner"`

	// Repo is the remote repository name.
	Repo string `yaml:"repo"`

	// Branch is the branch the vault synchronizes with.
	// Defaults to DefaultBranch.
	Branch string `yaml:"branch"`

	// BasePath is the directory inside the repository that holds the
	// synced documents. Empty means the repository root.
	BasePath string `yaml:"base_path,omitempty"`

	// LastSyncCommit is the commit hash of the last successful push.
	LastSyncCommit string `yaml:"last_sync_commit,omitempty"`

	// LastSyncTime is when the last successful push completed.
	LastSyncTime time.Time `yaml:"last_sync_time,omitempty"`
}

// Validate checks that the Target names a usable remote.
func (t *Target) Validate() error {
	if t.Credential == "" {
		return errors.New("credential is required")
	}
	if t.Owner == "" {
		return errors.New("owner is required")
	}
	if t.Repo == "" {
		return errors.New("repo is required")
	}
	if strings.HasPrefix(t.BasePath, "/") {
		return fmt.Errorf("base path %q must be relative", t.BasePath)
	}
	return nil
}

// ApplyDefaults fills unset optional fields.
func (t *Target) ApplyDefaults() {
	if t.Branch == "" {
		t.Branch = DefaultBranch
	}
	t.BasePath = strings.Trim(t.BasePath, "/")
}

// ManifestEntry maps one logical document name to its path below the
// target's base path.
type ManifestEntry struct {
	// Name is the logical document name the local store knows it by.
	Name string `yaml:"name"`

	// Path is the file path relative to the target's base path.
	Path string `yaml:"path"`
}

// Manifest is the ordered list of logical documents that participate in
// sync. The order is preserved in change listings and pull writes.
type Manifest []ManifestEntry

// DefaultManifest returns the manifest of the knowledge base's document
// categories.
func DefaultManifest() Manifest {
	return Manifest{
		{Name: "notes", Path: "notes.json"},
		{Name: "links", Path: "links.json"},
		{Name: "snippets", Path: "snippets.json"},
		{Name: "schemas", Path: "schemas.json"},
		{Name: "settings", Path: "settings.json"},
	}
}

// Validate checks the manifest for empty and duplicate entries and for
// paths that would escape the base path.
func (m Manifest) Validate() error {
	if len(m) == 0 {
		return errors.New("manifest cannot be empty")
	}

	names := make(map[string]struct{}, len(m))
	paths := make(map[string]struct{}, len(m))
	for _, e := range m {
		if e.Name == "" {
			return errors.New("manifest entry name cannot be empty")
		}
		if e.Path == "" {
			return fmt.Errorf("manifest entry %q has an empty path", e.Name)
		}
		if strings.HasPrefix(e.Path, "/") {
			return fmt.Errorf("manifest path %q must be relative", e.Path)
		}
		for _, seg := range strings.Split(e.Path, "/") {
			if seg == ".." {
				return fmt.Errorf("manifest path %q must not contain ..", e.Path)
			}
		}
		if _, ok := names[e.Name]; ok {
			return fmt.Errorf("duplicate manifest entry name %q", e.Name)
		}
		if _, ok := paths[e.Path]; ok {
			return fmt.Errorf("duplicate manifest entry path %q", e.Path)
		}
		names[e.Name] = struct{}{}
		paths[e.Path] = struct{}{}
	}
	return nil
}
