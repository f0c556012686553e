package vaultsync

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kitedocs/vaultsync/internal/objhash"
	"github.com/kitedocs/vaultsync/remote"
)

// fakeCommit is one commit object in the fake remote's graph.
type fakeCommit struct {
	tree    string
	parent  string
	message string
}

// fakeRemote implements ObjectClient over an in-memory object graph with
// real content-addressed blob hashes and a genuine fast-forward check on
// ref updates. Tests script failures through the error fields and observe
// traffic through the per-method call counters.
type fakeRemote struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	trees    map[string]map[string]string
	commits  map[string]fakeCommit
	branches map[string]string
	calls    map[string]int

	lastTreeEntries []remote.TreeEntry

	identity   *remote.Identity
	authErr    error
	permErr    error
	contentErr error
	blobErr    error

	// beforeUpdateRef runs at the start of UpdateBranchRef, letting tests
	// advance the branch between the head read and the ref update.
	beforeUpdateRef func()
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		blobs:    make(map[string][]byte),
		trees:    map[string]map[string]string{},
		commits:  make(map[string]fakeCommit),
		branches: make(map[string]string),
		calls:    make(map[string]int),
		identity: &remote.Identity{Login: "tester"},
	}
}

func (f *fakeRemote) record(method string) {
	f.calls[method]++
}

func (f *fakeRemote) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeRemote) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// commitFiles writes files on top of the branch's current tree and advances
// the branch, bypassing the ObjectClient surface. Used for seeding and for
// simulating a concurrent writer.
func (f *fakeRemote) commitFiles(t *testing.T, branch, message string, files map[string]string) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	parent := f.branches[branch]
	base := map[string]string{}
	if parent != "" {
		commit, ok := f.commits[parent]
		require.True(t, ok, "branch %q points at unknown commit", branch)
		for p, h := range f.trees[commit.tree] {
			base[p] = h
		}
	}

	for path, content := range files {
		hash := objhash.Blob([]byte(content))
		f.blobs[hash] = []byte(content)
		base[path] = hash
	}

	tree := f.storeTree(base)
	commit := hashOf("commit", tree, parent, message)
	f.commits[commit] = fakeCommit{tree: tree, parent: parent, message: message}
	f.branches[branch] = commit
	return commit
}

func (f *fakeRemote) storeTree(entries map[string]string) string {
	paths := make([]string, 0, len(entries))
	for p := range entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	parts := ""
	for _, p := range paths {
		parts += p + ":" + entries[p] + "\n"
	}
	hash := hashOf("tree", parts)
	f.trees[hash] = entries
	return hash
}

// headTree returns the path → blob hash mapping of the branch's current tree.
func (f *fakeRemote) headTree(t *testing.T, branch string) map[string]string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	head, ok := f.branches[branch]
	require.True(t, ok, "branch %q does not exist", branch)
	return f.trees[f.commits[head].tree]
}

func (f *fakeRemote) GetFileContent(_ context.Context, path, ref string) (*remote.FileContent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetFileContent")
	if f.contentErr != nil {
		return nil, f.contentErr
	}

	head, ok := f.branches[ref]
	if !ok {
		return nil, remote.WrapErrorf(remote.ErrNotFound, "ref %q", ref)
	}
	blobHash, ok := f.trees[f.commits[head].tree][path]
	if !ok {
		return nil, remote.WrapErrorf(remote.ErrNotFound, "path %q", path)
	}
	content := f.blobs[blobHash]
	return &remote.FileContent{Hash: blobHash, Content: content, Size: int64(len(content))}, nil
}

func (f *fakeRemote) CreateBlob(_ context.Context, content []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateBlob")
	if f.blobErr != nil {
		return "", f.blobErr
	}
	hash := objhash.Blob(content)
	f.blobs[hash] = append([]byte(nil), content...)
	return hash, nil
}

func (f *fakeRemote) GetBranchHead(_ context.Context, branch string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetBranchHead")
	head, ok := f.branches[branch]
	if !ok {
		return "", remote.WrapErrorf(remote.ErrNotFound, "branch %q", branch)
	}
	return head, nil
}

func (f *fakeRemote) GetCommitTree(_ context.Context, commitHash string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetCommitTree")
	commit, ok := f.commits[commitHash]
	if !ok {
		return "", remote.WrapErrorf(remote.ErrNotFound, "commit %q", commitHash)
	}
	return commit.tree, nil
}

func (f *fakeRemote) ListTreeEntries(_ context.Context, treeHash, prefix string) ([]remote.TreeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListTreeEntries")
	tree, ok := f.trees[treeHash]
	if !ok {
		return nil, remote.WrapErrorf(remote.ErrNotFound, "tree %q", treeHash)
	}
	entries := make([]remote.TreeEntry, 0, len(tree))
	for path, hash := range tree {
		if prefix != "" && len(path) >= len(prefix) && path[:len(prefix)] != prefix {
			continue
		}
		entries = append(entries, remote.TreeEntry{Path: path, Hash: hash, Size: int64(len(f.blobs[hash]))})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func (f *fakeRemote) CreateTree(_ context.Context, baseTreeHash string, entries []remote.TreeEntry) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTree")
	base, ok := f.trees[baseTreeHash]
	if !ok {
		return "", remote.WrapErrorf(remote.ErrNotFound, "tree %q", baseTreeHash)
	}
	merged := map[string]string{}
	for p, h := range base {
		merged[p] = h
	}
	for _, e := range entries {
		merged[e.Path] = e.Hash
	}
	f.lastTreeEntries = append([]remote.TreeEntry(nil), entries...)
	return f.storeTree(merged), nil
}

func (f *fakeRemote) CreateCommit(_ context.Context, message, treeHash, parentHash string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateCommit")
	commit := hashOf("commit", treeHash, parentHash, message)
	f.commits[commit] = fakeCommit{tree: treeHash, parent: parentHash, message: message}
	return commit, nil
}

func (f *fakeRemote) UpdateBranchRef(_ context.Context, branch, newCommitHash string) error {
	if f.beforeUpdateRef != nil {
		f.beforeUpdateRef()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateBranchRef")
	commit, ok := f.commits[newCommitHash]
	if !ok {
		return remote.WrapErrorf(remote.ErrNotFound, "commit %q", newCommitHash)
	}
	if commit.parent != f.branches[branch] {
		return remote.WrapErrorf(remote.ErrConflict, "branch %q advanced since head was read", branch)
	}
	f.branches[branch] = newCommitHash
	return nil
}

func (f *fakeRemote) ValidateCredential(_ context.Context) (*remote.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ValidateCredential")
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.identity, nil
}

func (f *fakeRemote) CheckWritePermission(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CheckWritePermission")
	return f.permErr
}

func hashOf(parts ...string) string {
	h := sha1.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%s\x00", p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
