// Package config holds the persisted sync-target record and the manifest of
// synced logical documents.
//
// The Target record identifies the remote repository, branch, and base path
// that the vault synchronizes with, along with the last successful sync
// metadata. It is loaded and saved through the Store contract; a YAML file
// store under the user's config directory is provided for applications, and
// an in-memory store for tests.
//
// The Manifest is the explicit, ordered list of logical documents that
// participate in sync. Documents outside the manifest are never observed,
// which is why the engine can never classify anything as deleted.
package config
