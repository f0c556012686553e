// Package remote implements the REST client for the git-object repository.
// This file contains blob, tree, and commit operations.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// TreeEntry maps one path to the blob holding its content.
type TreeEntry struct {
	// Path is the file path relative to the repository root.
	Path string

	// Hash is the blob hash for the file content.
	Hash string

	// Size is the blob size in bytes, when reported by the remote.
	Size int64
}

// CreateBlob stores content as a new blob and returns its hash.
// Blobs are content-addressed: creating the same bytes twice returns the
// same hash, so duplicate writes are harmless.
func (c *Client) CreateBlob(ctx context.Context, content []byte) (string, error) {
	req := struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}{
		Content:  encodeContent(content),
		Encoding: "base64",
	}

	var resp struct {
		SHA string `json:"sha"`
	}
	if err := c.do(ctx, http.MethodPost, c.repoPath("/git/blobs"), req, &resp); err != nil {
		return "", WrapError(classify(err), "failed to create blob")
	}
	return resp.SHA, nil
}

// GetCommitTree returns the tree hash referenced by the given commit.
// Returns ErrNotFound if the commit does not exist.
func (c *Client) GetCommitTree(ctx context.Context, commitHash string) (string, error) {
	if commitHash == "" {
		return "", fmt.Errorf("commit hash cannot be empty")
	}

	var resp struct {
		Tree struct {
			SHA string `json:"sha"`
		} `json:"tree"`
	}
	path := c.repoPath("/git/commits/" + commitHash)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", WrapErrorf(classify(err), "failed to read commit %s", commitHash)
	}
	return resp.Tree.SHA, nil
}

// ListTreeEntries recursively lists the blob entries of a tree, optionally
// restricted to paths under prefix. Sub-trees are flattened into full paths.
func (c *Client) ListTreeEntries(ctx context.Context, treeHash, prefix string) ([]TreeEntry, error) {
	if treeHash == "" {
		return nil, fmt.Errorf("tree hash cannot be empty")
	}

	var resp struct {
		Tree []struct {
			Path string `json:"path"`
			Type string `json:"type"`
			SHA  string `json:"sha"`
			Size int64  `json:"size"`
		} `json:"tree"`
		Truncated bool `json:"truncated"`
	}
	path := c.repoPath("/git/trees/" + treeHash + "?recursive=1")
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, WrapErrorf(classify(err), "failed to read tree %s", treeHash)
	}

	if resp.Truncated {
		c.logger.Warn("tree listing truncated by remote", zap.String("tree", treeHash))
	}

	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	entries := make([]TreeEntry, 0, len(resp.Tree))
	for _, e := range resp.Tree {
		if e.Type != "blob" {
			continue
		}
		if prefix != "" && !strings.HasPrefix(e.Path, prefix) {
			continue
		}
		entries = append(entries, TreeEntry{Path: e.Path, Hash: e.SHA, Size: e.Size})
	}
	return entries, nil
}

// CreateTree creates a new tree from baseTreeHash with the given entries
// applied on top. Only changed paths are sent; every other path is inherited
// from the base tree by the remote service.
func (c *Client) CreateTree(ctx context.Context, baseTreeHash string, entries []TreeEntry) (string, error) {
	if len(entries) == 0 {
		return "", fmt.Errorf("at least one tree entry is required")
	}

	type wireEntry struct {
		Path string `json:"path"`
		Mode string `json:"mode"`
		Type string `json:"type"`
		SHA  string `json:"sha"`
	}
	req := struct {
		BaseTree string      `json:"base_tree,omitempty"`
		Tree     []wireEntry `json:"tree"`
	}{
		BaseTree: baseTreeHash,
		Tree:     make([]wireEntry, 0, len(entries)),
	}
	for _, e := range entries {
		req.Tree = append(req.Tree, wireEntry{
			Path: e.Path,
			Mode: "100644",
			Type: "blob",
			SHA:  e.Hash,
		})
	}

	var resp struct {
		SHA string `json:"sha"`
	}
	if err := c.do(ctx, http.MethodPost, c.repoPath("/git/trees"), req, &resp); err != nil {
		return "", WrapError(classify(err), "failed to create tree")
	}
	return resp.SHA, nil
}

// CreateCommit creates a commit pointing at treeHash with the given parent.
func (c *Client) CreateCommit(ctx context.Context, message, treeHash, parentHash string) (string, error) {
	if message == "" {
		return "", fmt.Errorf("commit message cannot be empty")
	}
	if treeHash == "" {
		return "", fmt.Errorf("tree hash cannot be empty")
	}

	req := struct {
		Message string   `json:"message"`
		Tree    string   `json:"tree"`
		Parents []string `json:"parents"`
	}{
		Message: message,
		Tree:    treeHash,
	}
	if parentHash != "" {
		req.Parents = []string{parentHash}
	}

	var resp struct {
		SHA string `json:"sha"`
	}
	if err := c.do(ctx, http.MethodPost, c.repoPath("/git/commits"), req, &resp); err != nil {
		return "", WrapError(classify(err), "failed to create commit")
	}
	return resp.SHA, nil
}
