// Package remote implements the REST client for the git-object repository.
// This file contains credential and permission validation.
package remote

import (
	"context"
	"errors"
	"net/http"
)

// Identity describes the account the credential belongs to.
type Identity struct {
	// Login is the account's login name.
	Login string

	// Name is the account's display name, when set.
	Name string
}

// Repository is one entry of the repository-list endpoint.
type Repository struct {
	// Name is the repository name without the owner prefix.
	Name string

	// FullName is the owner-qualified repository name.
	FullName string

	// Private reports whether the repository is private.
	Private bool

	// CanPush reports whether the credential has write access.
	CanPush bool
}

// ValidateCredential resolves the identity behind the credential.
// Returns ErrAuth when the credential is invalid or expired.
func (c *Client) ValidateCredential(ctx context.Context) (*Identity, error) {
	var resp struct {
		Login string `json:"login"`
		Name  string `json:"name"`
	}
	if err := c.do(ctx, http.MethodGet, "/user", nil, &resp); err != nil {
		err = WrapError(classify(err), "failed to validate credential")
		// Some services answer an invalid credential with 403.
		if errors.Is(err, ErrPermission) {
			return nil, WrapError(ErrAuth, "credential rejected")
		}
		return nil, err
	}
	return &Identity{Login: resp.Login, Name: resp.Name}, nil
}

// CheckWritePermission verifies that the credential can push to the target
// repository. Returns ErrPermission when the credential is valid but lacks
// write access. Callers run this after ValidateCredential so the two failure
// kinds stay distinguishable.
func (c *Client) CheckWritePermission(ctx context.Context) error {
	var resp struct {
		Permissions struct {
			Push bool `json:"push"`
		} `json:"permissions"`
	}
	if err := c.do(ctx, http.MethodGet, c.repoPath(""), nil, &resp); err != nil {
		return WrapError(classify(err), "failed to read repository")
	}
	if !resp.Permissions.Push {
		return WrapErrorf(ErrPermission, "no write access to %s/%s", c.owner, c.repo)
	}
	return nil
}

// ListRepositories lists the repositories visible to the credential, so
// callers can offer a sync-target picker.
func (c *Client) ListRepositories(ctx context.Context) ([]Repository, error) {
	var resp []struct {
		Name        string `json:"name"`
		FullName    string `json:"full_name"`
		Private     bool   `json:"private"`
		Permissions struct {
			Push bool `json:"push"`
		} `json:"permissions"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/repos?per_page=100", nil, &resp); err != nil {
		return nil, WrapError(classify(err), "failed to list repositories")
	}

	repos := make([]Repository, 0, len(resp))
	for _, r := range resp {
		repos = append(repos, Repository{
			Name:     r.Name,
			FullName: r.FullName,
			Private:  r.Private,
			CanPush:  r.Permissions.Push,
		})
	}
	return repos, nil
}
