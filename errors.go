// Package vaultsync provides sentinel errors for the sync workflows.
// All errors can be checked using errors.Is() for programmatic handling.
// Remote failures keep their taxonomy from the remote package (ErrAuth,
// ErrPermission, ErrNotFound, ErrConflict, ErrTransport) through wrapping.
package vaultsync

import (
	"errors"
	"fmt"
)

// ErrNotConfirmed is returned by Pull when the caller has not confirmed the
// destructive overwrite of local documents. No network call is issued.
var ErrNotConfirmed = errors.New("pull not confirmed")

// ErrNoSelection is never returned by Push - an empty selection is a
// successful no-op - but is available for callers that want to refuse
// triggering a push with nothing selected.
var ErrNoSelection = errors.New("no documents selected")

// WrapError wraps an error with additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf wraps an error with formatted additional context while
// preserving the ability to check against sentinel errors using errors.Is().
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
