package remote

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCredential(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		validate func(t *testing.T, identity *Identity, err error)
	}{
		{
			name: "valid credential",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/user", r.URL.Path)
				_, _ = w.Write([]byte(`{"login":"octocat","name":"The Octocat"}`))
			},
			validate: func(t *testing.T, identity *Identity, err error) {
				require.NoError(t, err)
				assert.Equal(t, "octocat", identity.Login)
				assert.Equal(t, "The Octocat", identity.Name)
			},
		},
		{
			name: "rejected credential",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
			},
			validate: func(t *testing.T, identity *Identity, err error) {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrAuth))
				assert.Nil(t, identity)
			},
		},
		{
			// Some services answer a bad credential with 403; identity
			// lookups remap that to an auth failure so the caller's advice
			// ("log in again" vs "ask an admin") stays correct.
			name: "forbidden remaps to auth",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"message":"Forbidden"}`))
			},
			validate: func(t *testing.T, identity *Identity, err error) {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrAuth))
				assert.False(t, errors.Is(err, ErrPermission))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler, -1)
			identity, err := client.ValidateCredential(context.Background())
			tt.validate(t, identity, err)
		})
	}
}

func TestCheckWritePermission(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		validate func(t *testing.T, err error)
	}{
		{
			name: "push allowed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/repos/acme/vault", r.URL.Path)
				_, _ = w.Write([]byte(`{"full_name":"acme/vault","permissions":{"admin":false,"push":true,"pull":true}}`))
			},
			validate: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "read-only access",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"full_name":"acme/vault","permissions":{"push":false,"pull":true}}`))
			},
			validate: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrPermission))
				assert.Contains(t, err.Error(), "acme/vault")
			},
		},
		{
			name: "repository not visible",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			},
			validate: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrNotFound))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler, -1)
			tt.validate(t, client.CheckWritePermission(context.Background()))
		})
	}
}

func TestListRepositories(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/repos", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		_, _ = w.Write([]byte(`[
			{"name":"vault","full_name":"acme/vault","private":true,"permissions":{"push":true}},
			{"name":"docs","full_name":"acme/docs","private":false,"permissions":{"push":false}}
		]`))
	})

	client := newTestClient(t, handler, -1)
	repos, err := client.ListRepositories(context.Background())
	require.NoError(t, err)
	require.Len(t, repos, 2)

	assert.Equal(t, Repository{Name: "vault", FullName: "acme/vault", Private: true, CanPush: true}, repos[0])
	assert.Equal(t, Repository{Name: "docs", FullName: "acme/docs", Private: false, CanPush: false}, repos[1])
}
