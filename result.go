// Package vaultsync implements the sync workflows.
// This file contains the terminal result and user-facing status types.
package vaultsync

// Result is the terminal value of one push or pull invocation.
// Failures are reported through the accompanying error return instead.
type Result struct {
	// Success reports whether the workflow completed.
	Success bool

	// CommitHash is the branch head after the workflow: the new commit for
	// a push that created one, or the unchanged head for a no-op push.
	// Empty for pull, which never touches the branch.
	CommitHash string

	// FilesUpdated is the number of documents the workflow wrote - remote
	// paths for push, local documents for pull.
	FilesUpdated int
}

// StatusLevel categorizes a status message.
type StatusLevel int

const (
	// StatusInfo is a neutral progress or no-op message.
	StatusInfo StatusLevel = iota

	// StatusSuccess reports a completed workflow.
	StatusSuccess

	// StatusError reports a failed workflow.
	StatusError
)

// String returns a human-readable string representation of the StatusLevel.
func (l StatusLevel) String() string {
	switch l {
	case StatusInfo:
		return "info"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Status is one user-visible message about a sync attempt. The engine emits
// exactly one terminal status per push or pull invocation.
type Status struct {
	// Level categorizes the message.
	Level StatusLevel

	// Message is the display text.
	Message string
}
