package docstore

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// ErrNotExist is returned when a logical document is not present in the
// local store.
var ErrNotExist = errors.New("document does not exist")

// Store reads and writes named logical documents.
type Store interface {
	// Read returns the current content of the named document.
	// Returns ErrNotExist when the document is absent.
	Read(name string) (string, error)

	// Write replaces the content of the named document, creating it if
	// needed.
	Write(name, content string) error
}

// FS is a Store backed by a billy filesystem. Document names map directly
// to file paths below the filesystem root.
type FS struct {
	fs billy.Filesystem
}

// NewFS creates a store over an existing billy filesystem.
func NewFS(fsys billy.Filesystem) *FS {
	return &FS{fs: fsys}
}

// NewOSDir creates a store rooted at dir on the local disk.
func NewOSDir(dir string) *FS {
	return &FS{fs: osfs.New(dir)}
}

// NewMemFS creates a store over a fresh in-memory filesystem.
func NewMemFS() *FS {
	return &FS{fs: memfs.New()}
}

// Read returns the content of the named document.
func (s *FS) Read(name string) (string, error) {
	raw, err := util.ReadFile(s.fs, name)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%q: %w", name, ErrNotExist)
		}
		return "", fmt.Errorf("failed to read document %q: %w", name, err)
	}
	return string(raw), nil
}

// Write replaces the content of the named document.
func (s *FS) Write(name, content string) error {
	if dir := path.Dir(name); dir != "." && dir != "/" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %q: %w", name, err)
		}
	}
	if err := util.WriteFile(s.fs, name, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write document %q: %w", name, err)
	}
	return nil
}

// Mem is a map-backed Store for tests.
type Mem struct {
	mu   sync.Mutex
	docs map[string]string
}

// NewMem creates an in-memory store, optionally seeded with documents.
func NewMem(seed map[string]string) *Mem {
	docs := make(map[string]string, len(seed))
	for name, content := range seed {
		docs[name] = content
	}
	return &Mem{docs: docs}
}

// Read returns the content of the named document.
func (m *Mem) Read(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.docs[name]
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrNotExist)
	}
	return content, nil
}

// Write replaces the content of the named document.
func (m *Mem) Write(name, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[name] = content
	return nil
}
