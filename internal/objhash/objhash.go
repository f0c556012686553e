// Package objhash computes git object hashes for raw content without
// requiring a repository. The remote service addresses blobs by the hash of
// their own bytes, so computing the same hash locally lets callers detect
// no-op writes before any network round-trip.
package objhash

import (
	"github.com/go-git/go-git/v5/plumbing"
)

// Blob returns the git blob hash of content as a 40-character hex string.
// Identical content always yields an identical hash.
func Blob(content []byte) string {
	return plumbing.ComputeHash(plumbing.BlobObject, content).String()
}
