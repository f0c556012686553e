// Package vaultsync implements the sync workflows.
// This file contains the orchestrator construction and access validation.
package vaultsync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kitedocs/vaultsync/config"
	"github.com/kitedocs/vaultsync/docstore"
	"github.com/kitedocs/vaultsync/remote"
)

// ObjectClient is the remote surface the orchestrator drives. Each method
// performs one round-trip against one remote primitive and returns a typed
// value or a classified error from the remote package's taxonomy.
// *remote.Client implements it; tests substitute scripted fakes.
type ObjectClient interface {
	// GetFileContent reads the file at path on the given ref.
	GetFileContent(ctx context.Context, path, ref string) (*remote.FileContent, error)

	// CreateBlob stores content as a new blob and returns its hash.
	CreateBlob(ctx context.Context, content []byte) (string, error)

	// GetBranchHead returns the commit hash the branch points at.
	GetBranchHead(ctx context.Context, branch string) (string, error)

	// GetCommitTree returns the tree hash referenced by a commit.
	GetCommitTree(ctx context.Context, commitHash string) (string, error)

	// ListTreeEntries recursively lists the blob entries of a tree.
	ListTreeEntries(ctx context.Context, treeHash, prefix string) ([]remote.TreeEntry, error)

	// CreateTree creates a tree from a base tree plus changed entries.
	CreateTree(ctx context.Context, baseTreeHash string, entries []remote.TreeEntry) (string, error)

	// CreateCommit creates a commit for a tree with one parent.
	CreateCommit(ctx context.Context, message, treeHash, parentHash string) (string, error)

	// UpdateBranchRef fast-forwards the branch to a new commit.
	UpdateBranchRef(ctx context.Context, branch, newCommitHash string) error

	// ValidateCredential resolves the identity behind the credential.
	ValidateCredential(ctx context.Context) (*remote.Identity, error)

	// CheckWritePermission verifies write access to the target repository.
	CheckWritePermission(ctx context.Context) error
}

// Options configures the sync orchestrator.
type Options struct {
	// Config is the REQUIRED store holding the sync-target record.
	Config config.Store

	// Documents is the REQUIRED local store of logical documents.
	Documents docstore.Store

	// Manifest is the ordered list of synced documents.
	// Defaults to config.DefaultManifest().
	Manifest config.Manifest

	// Logger receives structured progress events.
	// Defaults to a no-op logger.
	Logger *zap.Logger

	// OnStatus, when set, receives the single terminal status message of
	// each push or pull attempt.
	OnStatus func(Status)
}

// Validate checks that the Options are properly configured.
// It returns an error if required fields are missing or invalid.
func (o *Options) Validate() error {
	if o.Config == nil {
		return fmt.Errorf("config store is required")
	}
	if o.Documents == nil {
		return fmt.Errorf("document store is required")
	}
	if len(o.Manifest) > 0 {
		if err := o.Manifest.Validate(); err != nil {
			return WrapError(err, "invalid manifest")
		}
	}
	return nil
}

// applyDefaults sets default values for any unset fields in Options.
func (o *Options) applyDefaults() {
	if len(o.Manifest) == 0 {
		o.Manifest = config.DefaultManifest()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// Syncer sequences remote calls into the push and pull workflows. Execution
// is strictly sequential and single-flight: one remote call at a time, in
// causal order, failing fast on the first classified error.
type Syncer struct {
	client   ObjectClient
	cfg      config.Store
	docs     docstore.Store
	manifest config.Manifest
	logger   *zap.Logger
	onStatus func(Status)
	now      func() time.Time
}

// New creates a Syncer that drives the given remote client.
func New(client ObjectClient, opts *Options) (*Syncer, error) {
	if client == nil {
		return nil, fmt.Errorf("object client is required")
	}
	if opts == nil {
		return nil, fmt.Errorf("options are required")
	}
	if err := opts.Validate(); err != nil {
		return nil, WrapError(err, "invalid options")
	}

	o := *opts
	o.applyDefaults()

	return &Syncer{
		client:   client,
		cfg:      o.Config,
		docs:     o.Documents,
		manifest: o.Manifest,
		logger:   o.Logger,
		onStatus: o.OnStatus,
		now:      time.Now,
	}, nil
}

// ValidateAccess runs the two-stage credential check: identity lookup, then
// write permission on the target repository. The two failure kinds stay
// distinguishable - errors.Is(err, remote.ErrAuth) means the credential is
// bad, errors.Is(err, remote.ErrPermission) means it is valid but lacks
// write access.
func (s *Syncer) ValidateAccess(ctx context.Context) (*remote.Identity, error) {
	identity, err := s.client.ValidateCredential(ctx)
	if err != nil {
		return nil, WrapError(err, "access validation failed")
	}

	if err := s.client.CheckWritePermission(ctx); err != nil {
		return nil, WrapError(err, "access validation failed")
	}

	return identity, nil
}

// Manifest returns the manifest the Syncer operates on.
func (s *Syncer) Manifest() config.Manifest {
	return s.manifest
}

// loadTarget loads, defaults, and validates the sync-target record.
func (s *Syncer) loadTarget() (*config.Target, error) {
	target, err := s.cfg.Load()
	if err != nil {
		return nil, WrapError(err, "failed to load sync target")
	}
	target.ApplyDefaults()
	if err := target.Validate(); err != nil {
		return nil, WrapError(err, "invalid sync target")
	}
	return target, nil
}

// report delivers the terminal status of an attempt, if a receiver is set.
func (s *Syncer) report(level StatusLevel, format string, args ...interface{}) {
	if s.onStatus == nil {
		return
	}
	s.onStatus(Status{Level: level, Message: fmt.Sprintf(format, args...)})
}

// remotePath joins the target's base path with a manifest-relative path.
func remotePath(basePath, rel string) string {
	if basePath == "" {
		return rel
	}
	return basePath + "/" + rel
}
