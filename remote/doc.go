// Package remote implements a thin, stateless client for a git-object
// repository that is reachable only through its REST surface. Each method
// performs exactly one logical operation against one remote primitive: read
// file content at a path, create a blob, read or update a branch ref, read or
// create trees and commits, and validate credentials.
//
// The client never touches local state. Failures are classified into a small
// sentinel taxonomy (ErrAuth, ErrPermission, ErrNotFound, ErrConflict,
// ErrTransport) so callers can branch on errors.Is without parsing messages.
//
// The wire format is the GitHub-compatible git data API; any host that
// implements the same contract can be targeted by setting Options.BaseURL.
// File bytes travel as base64 text and are decoded binary-safe, so multi-byte
// UTF-8 content round-trips unchanged.
package remote
