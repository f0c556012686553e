// Package remote provides sentinel errors for remote object operations.
// All errors can be checked using errors.Is() for programmatic handling.
package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAuth is returned when the credential is missing, invalid, or expired.
// The caller should re-authenticate before retrying anything.
var ErrAuth = errors.New("authentication failed")

// ErrPermission is returned when the credential is valid but lacks write
// access to the target repository. Distinct from ErrAuth so callers can tell
// "log in again" apart from "ask an admin for access".
var ErrPermission = errors.New("permission denied")

// ErrNotFound is returned when a branch, commit, tree, or path does not
// exist on the remote.
var ErrNotFound = errors.New("object not found")

// ErrConflict is returned when a branch ref update is rejected because the
// branch advanced since the head was read. The update is never forced and
// never retried automatically.
var ErrConflict = errors.New("branch ref conflict")

// ErrTransport is returned for network failures and unclassified
// non-success responses.
var ErrTransport = errors.New("transport error")

// APIError describes a non-success response from the remote service.
// It is converted to one of the sentinel errors before leaving the package,
// but operations inspect it internally for status-specific handling.
type APIError struct {
	// StatusCode is the HTTP status returned by the remote.
	StatusCode int

	// Message is the error message extracted from the response body,
	// if one was present.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote returned status %d: %s", e.StatusCode, e.Message)
}

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

// classify converts an *APIError into the sentinel taxonomy. Errors that are
// already sentinels (transport failures) pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		return WrapError(ErrAuth, apiErr.Error())
	case http.StatusForbidden:
		return WrapError(ErrPermission, apiErr.Error())
	case http.StatusNotFound:
		return WrapError(ErrNotFound, apiErr.Error())
	case http.StatusConflict:
		return WrapError(ErrConflict, apiErr.Error())
	default:
		return WrapError(ErrTransport, apiErr.Error())
	}
}
