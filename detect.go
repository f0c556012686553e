// Package vaultsync implements the sync workflows.
// This file contains change detection against the remote branch.
package vaultsync

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/kitedocs/vaultsync/docstore"
	"github.com/kitedocs/vaultsync/remote"
)

// ChangeStatus classifies one manifest entry against the remote.
type ChangeStatus int

const (
	// ChangeUnchanged means local and remote content are byte-equal.
	ChangeUnchanged ChangeStatus = iota

	// ChangeAdded means the document does not exist remotely yet.
	ChangeAdded

	// ChangeModified means local and remote content differ.
	ChangeModified

	// ChangeDeleted is defined for completeness but is never produced:
	// only manifest entries are observed, so a remote file can disappear
	// from the manifest without the engine ever seeing it.
	ChangeDeleted
)

// String returns a human-readable string representation of the ChangeStatus.
func (c ChangeStatus) String() string {
	switch c {
	case ChangeUnchanged:
		return "unchanged"
	case ChangeAdded:
		return "added"
	case ChangeModified:
		return "modified"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change describes one manifest entry's state relative to the remote branch.
// Changes are built fresh on every DetectChanges call and never persisted.
type Change struct {
	// LogicalName is the document name in the local store.
	LogicalName string

	// Path is the full remote path, including the target's base path.
	Path string

	// Status classifies the entry.
	Status ChangeStatus

	// EstimatedAdditions and EstimatedDeletions are the positive
	// differences in line counts between local and remote content. This is
	// a coarse proxy for display purposes, not a real diff.
	EstimatedAdditions int
	EstimatedDeletions int

	// LocalSize is the local content size in bytes.
	LocalSize int64

	// RemoteSize is the remote content size in bytes, when the document
	// exists remotely.
	RemoteSize int64

	// RemoteHash is the remote blob hash, when the document exists
	// remotely. Push uses it to skip writes whose content already matches.
	RemoteHash string

	// Selected marks the entry for inclusion in the next push. Added and
	// modified entries default to selected.
	Selected bool
}

// DetectChanges compares every manifest entry against the remote branch and
// classifies it as added, modified, or unchanged. A document absent from the
// local store is treated as empty content. Deletion is deliberately outside
// the engine's observational scope: files that exist remotely but not in the
// manifest are never surfaced.
func (s *Syncer) DetectChanges(ctx context.Context) ([]Change, error) {
	target, err := s.loadTarget()
	if err != nil {
		return nil, err
	}

	changes := make([]Change, 0, len(s.manifest))
	for _, entry := range s.manifest {
		local, err := s.docs.Read(entry.Name)
		if err != nil && !errors.Is(err, docstore.ErrNotExist) {
			return nil, WrapErrorf(err, "failed to read local document %q", entry.Name)
		}

		change := Change{
			LogicalName: entry.Name,
			Path:        remotePath(target.BasePath, entry.Path),
			LocalSize:   int64(len(local)),
		}

		content, err := s.client.GetFileContent(ctx, change.Path, target.Branch)
		switch {
		case errors.Is(err, remote.ErrNotFound):
			change.Status = ChangeAdded
			change.EstimatedAdditions = countLines(local)
			change.Selected = true
		case err != nil:
			return nil, WrapErrorf(err, "failed to read remote content for %q", entry.Name)
		default:
			change.RemoteHash = content.Hash
			change.RemoteSize = content.Size
			if local == string(content.Content) {
				change.Status = ChangeUnchanged
			} else {
				change.Status = ChangeModified
				change.Selected = true
				localLines := countLines(local)
				remoteLines := countLines(string(content.Content))
				if localLines > remoteLines {
					change.EstimatedAdditions = localLines - remoteLines
				} else {
					change.EstimatedDeletions = remoteLines - localLines
				}
			}
		}

		s.logger.Debug("classified document",
			zap.String("name", entry.Name),
			zap.String("path", change.Path),
			zap.Stringer("status", change.Status))

		changes = append(changes, change)
	}

	return changes, nil
}

// countLines returns the number of lines in content. A trailing newline
// does not start an extra line.
func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}
