// Package vaultsync implements the sync workflows.
// This file contains the pull workflow: a linear, non-diffing overwrite of
// local documents from the remote branch.
package vaultsync

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kitedocs/vaultsync/remote"
)

// PullOptions configures one pull invocation.
type PullOptions struct {
	// Confirmed must be true for the pull to run. Pull overwrites local
	// documents unconditionally, including edits not yet pushed, so the
	// caller has to collect an explicit confirmation first. When false,
	// ErrNotConfirmed is returned before any network call.
	Confirmed bool
}

// Pull overwrites every manifest document with its remote content. The
// remote always wins; manifest entries that do not exist remotely are
// skipped. Pull creates no commits and never mutates the remote branch.
func (s *Syncer) Pull(ctx context.Context, opts PullOptions) (*Result, error) {
	if !opts.Confirmed {
		return nil, ErrNotConfirmed
	}

	target, err := s.loadTarget()
	if err != nil {
		return nil, err
	}

	logger := s.logger.With(zap.String("branch", target.Branch))

	updated := 0
	for _, entry := range s.manifest {
		path := remotePath(target.BasePath, entry.Path)

		content, err := s.client.GetFileContent(ctx, path, target.Branch)
		if errors.Is(err, remote.ErrNotFound) {
			logger.Debug("document absent on remote, skipping",
				zap.String("name", entry.Name),
				zap.String("path", path))
			continue
		}
		if err != nil {
			failed := WrapErrorf(err, "pull failed reading %q", path)
			logger.Error("pull failed", zap.Error(failed))
			s.report(StatusError, "%v", failed)
			return nil, failed
		}

		if err := s.docs.Write(entry.Name, string(content.Content)); err != nil {
			failed := WrapErrorf(err, "pull failed writing document %q", entry.Name)
			logger.Error("pull failed", zap.Error(failed))
			s.report(StatusError, "%v", failed)
			return nil, failed
		}
		updated++
	}

	logger.Info("pull complete", zap.Int("files", updated))
	s.report(StatusSuccess, "pulled %d document(s) from %s", updated, target.Branch)
	return &Result{Success: true, FilesUpdated: updated}, nil
}
