// Package docstore is the local side of the sync engine: it reads and
// writes the named logical documents of the vault as strings.
//
// The sync engine treats the local store as an external collaborator and
// only depends on the Store contract. Two implementations are provided: FS,
// backed by a billy filesystem (on disk or in memory), and Mem, a plain map
// for tests.
package docstore
