// Package remote implements the REST client for the git-object repository.
// This file contains branch ref operations. The branch ref is the single
// mutable object on the remote and the sole point of write contention.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// GetBranchHead returns the commit hash the branch currently points at.
// Returns ErrNotFound if the branch does not exist.
func (c *Client) GetBranchHead(ctx context.Context, branch string) (string, error) {
	if branch == "" {
		return "", fmt.Errorf("branch cannot be empty")
	}

	var resp struct {
		Object struct {
			SHA  string `json:"sha"`
			Type string `json:"type"`
		} `json:"object"`
	}
	path := c.repoPath("/git/ref/heads/" + url.PathEscape(branch))
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", WrapErrorf(classify(err), "failed to read head of branch %q", branch)
	}
	return resp.Object.SHA, nil
}

// UpdateBranchRef moves the branch to newCommitHash. The update is never
// forced: the remote only accepts it when newCommitHash's declared parent is
// the current head (a fast-forward). Returns ErrConflict when the branch
// advanced concurrently; the caller must not retry, since resolving the
// divergence would require merge logic outside this engine's scope.
func (c *Client) UpdateBranchRef(ctx context.Context, branch, newCommitHash string) error {
	if branch == "" {
		return fmt.Errorf("branch cannot be empty")
	}
	if newCommitHash == "" {
		return fmt.Errorf("commit hash cannot be empty")
	}

	req := struct {
		SHA   string `json:"sha"`
		Force bool   `json:"force"`
	}{
		SHA:   newCommitHash,
		Force: false,
	}

	path := c.repoPath("/git/refs/heads/" + url.PathEscape(branch))
	err := c.do(ctx, http.MethodPatch, path, req, nil)
	if err == nil {
		return nil
	}

	// The remote reports a rejected fast-forward as an unprocessable
	// update rather than a plain conflict status.
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnprocessableEntity {
		return WrapErrorf(ErrConflict, "branch %q advanced since head was read", branch)
	}
	return WrapErrorf(classify(err), "failed to update branch %q", branch)
}
