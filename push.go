// Package vaultsync implements the sync workflows.
// This file contains the push state machine and the commit builder.
package vaultsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/kitedocs/vaultsync/docstore"
	"github.com/kitedocs/vaultsync/internal/objhash"
	"github.com/kitedocs/vaultsync/remote"
)

// PushState is one phase of the push workflow. The workflow moves linearly
// from StateIdle to StatePushed; a failure in any phase is terminal and the
// next push restarts from the current branch head.
type PushState int

const (
	// StateIdle is the initial phase, before the branch head is read.
	StateIdle PushState = iota

	// StateChangesDetected means a non-empty selection entered the push.
	StateChangesDetected

	// StateBuilding covers blob creation and tree construction.
	StateBuilding

	// StateCommitting covers commit creation and the ref update.
	StateCommitting

	// StatePushed is the terminal success phase.
	StatePushed

	// StateFailed is the terminal failure phase.
	StateFailed
)

// String returns a human-readable string representation of the PushState.
func (s PushState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChangesDetected:
		return "changes-detected"
	case StateBuilding:
		return "building"
	case StateCommitting:
		return "committing"
	case StatePushed:
		return "pushed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PushOptions configures one push invocation.
type PushOptions struct {
	// Message is the commit message. When empty, a summary line is
	// generated from the number of updated documents. A sync-attempt
	// trailer is appended either way so remote history can be correlated
	// with client logs.
	Message string
}

// Push creates exactly one commit from the selected changes and
// fast-forwards the branch to it.
//
// Selected entries whose current local content already matches the remote
// blob are skipped without any remote call; when every entry is skipped the
// push short-circuits as a successful no-op and issues no tree, commit, or
// ref-update call. On a concurrent branch advance the ref update fails with
// remote.ErrConflict, nothing is retried or forced, and the sync-target
// record is left untouched; blobs already created stay orphaned on the
// remote, which is harmless because they are immutable and content-addressed.
//
// After a successful ref update the sync-target record is advanced to the
// new head. If persisting the record fails the returned Result still
// describes the successful push alongside the error.
func (s *Syncer) Push(ctx context.Context, changes []Change, opts PushOptions) (*Result, error) {
	target, err := s.loadTarget()
	if err != nil {
		return nil, err
	}

	attempt := ksuid.New().String()
	logger := s.logger.With(
		zap.String("attempt", attempt),
		zap.String("branch", target.Branch))

	state := StateIdle
	enter := func(next PushState) {
		logger.Debug("push state transition",
			zap.Stringer("from", state),
			zap.Stringer("to", next))
		state = next
	}
	fail := func(err error) (*Result, error) {
		failed := WrapErrorf(err, "push failed while %s", state)
		enter(StateFailed)
		logger.Error("push failed", zap.Error(failed))
		s.report(StatusError, "%v", failed)
		return nil, failed
	}

	selected := make([]Change, 0, len(changes))
	for _, c := range changes {
		if c.Selected && c.Status != ChangeUnchanged {
			selected = append(selected, c)
		}
	}
	if len(selected) > 0 {
		enter(StateChangesDetected)
	}

	// The head read here becomes the commit's declared parent; the remote
	// compares it against the branch at ref-update time, which is the sole
	// concurrency guard in the whole workflow.
	head, err := s.client.GetBranchHead(ctx, target.Branch)
	if err != nil {
		return fail(WrapErrorf(err, "branch %q", target.Branch))
	}

	baseTree, err := s.client.GetCommitTree(ctx, head)
	if err != nil {
		return fail(WrapErrorf(err, "commit %s", head))
	}

	enter(StateBuilding)
	entries, err := s.buildTreeEntries(ctx, logger, selected)
	if err != nil {
		return fail(err)
	}

	if len(entries) == 0 {
		enter(StatePushed)
		logger.Info("push is a no-op, branch unchanged", zap.String("head", head))
		s.report(StatusInfo, "already up to date")
		return &Result{Success: true, CommitHash: head, FilesUpdated: 0}, nil
	}

	newTree, err := s.client.CreateTree(ctx, baseTree, entries)
	if err != nil {
		return fail(err)
	}

	enter(StateCommitting)
	message := buildCommitMessage(opts.Message, len(entries), attempt)
	newCommit, err := s.client.CreateCommit(ctx, message, newTree, head)
	if err != nil {
		return fail(err)
	}

	if err := s.client.UpdateBranchRef(ctx, target.Branch, newCommit); err != nil {
		if errors.Is(err, remote.ErrConflict) {
			logger.Warn("branch advanced concurrently, push abandoned",
				zap.String("head", head),
				zap.String("commit", newCommit))
		}
		return fail(err)
	}

	enter(StatePushed)
	result := &Result{Success: true, CommitHash: newCommit, FilesUpdated: len(entries)}

	target.LastSyncCommit = newCommit
	target.LastSyncTime = s.now()
	if err := s.cfg.Save(target); err != nil {
		saveErr := WrapError(err, "push succeeded but failed to persist sync metadata")
		logger.Error("failed to persist sync metadata", zap.Error(saveErr))
		s.report(StatusError, "%v", saveErr)
		return result, saveErr
	}

	logger.Info("push complete",
		zap.String("commit", newCommit),
		zap.Int("files", len(entries)))
	s.report(StatusSuccess, "pushed %d document(s) as commit %.7s", len(entries), newCommit)
	return result, nil
}

// buildTreeEntries creates a blob for every selected change whose current
// local content differs from the remote blob, and returns the changed
// (path, blob hash) pairs. Content is re-read at push time, so a document
// that reverted since detection drops out here: its local blob hash equals
// the remote hash and no remote call is made for it.
func (s *Syncer) buildTreeEntries(ctx context.Context, logger *zap.Logger, selected []Change) ([]remote.TreeEntry, error) {
	entries := make([]remote.TreeEntry, 0, len(selected))
	for _, change := range selected {
		content, err := s.docs.Read(change.LogicalName)
		if err != nil && !errors.Is(err, docstore.ErrNotExist) {
			return nil, WrapErrorf(err, "failed to read local document %q", change.LogicalName)
		}

		if objhash.Blob([]byte(content)) == change.RemoteHash {
			logger.Debug("skipping no-op entry", zap.String("path", change.Path))
			continue
		}

		blobHash, err := s.client.CreateBlob(ctx, []byte(content))
		if err != nil {
			return nil, WrapErrorf(err, "failed to store %q", change.Path)
		}

		entries = append(entries, remote.TreeEntry{
			Path: change.Path,
			Hash: blobHash,
			Size: int64(len(content)),
		})
	}
	return entries, nil
}

// buildCommitMessage assembles the commit message with the sync-attempt
// trailer.
func buildCommitMessage(message string, files int, attempt string) string {
	if message == "" {
		noun := "documents"
		if files == 1 {
			noun = "document"
		}
		message = fmt.Sprintf("vault sync: update %d %s", files, noun)
	}
	return fmt.Sprintf("%s\n\nSync-Attempt: %s", message, attempt)
}
