// Package remote implements the REST client for the git-object repository.
// This file contains the client construction and the shared request plumbing.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the default API endpoint.
	DefaultBaseURL = "https://api.github.com"

	// DefaultMaxRetries is the default number of extra attempts made for
	// transport-level failures. Classified client errors are never retried.
	DefaultMaxRetries = 2

	// acceptHeader selects the JSON media type of the git data surface.
	acceptHeader = "application/vnd.github+json"

	// apiVersionHeader pins the API version the client is written against.
	apiVersion = "2022-11-28"

	// retryBaseDelay is the starting delay for jittered retry backoff.
	retryBaseDelay = 250 * time.Millisecond

	// maxErrorBody caps how much of an error response body is read.
	maxErrorBody = 8 << 10
)

// Options configures the remote object client.
type Options struct {
	// Owner is the REQUIRED account that owns the target repository.
	Owner string

	// Repo is the REQUIRED repository name.
	Repo string

	// Credential is the REQUIRED bearer credential sent with every request.
	Credential string

	// BaseURL overrides the API endpoint, for self-hosted services that
	// implement the same surface. Defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient is an optional custom transport for network operations.
	// If nil, a default client with reasonable timeouts is used.
	HTTPClient *http.Client

	// Logger receives debug-level request and retry events.
	// Defaults to a no-op logger.
	Logger *zap.Logger

	// MaxRetries is the number of extra attempts for transport failures
	// (network errors and 5xx responses). Defaults to DefaultMaxRetries.
	// Set to -1 to disable retries entirely.
	MaxRetries int
}

// Validate checks that the Options are properly configured.
// It returns an error if required fields are missing or invalid.
func (o *Options) Validate() error {
	if o.Owner == "" {
		return fmt.Errorf("owner is required")
	}
	if o.Repo == "" {
		return fmt.Errorf("repo is required")
	}
	if o.Credential == "" {
		return WrapError(ErrAuth, "credential is required")
	}
	if o.MaxRetries < -1 {
		return fmt.Errorf("MaxRetries cannot be less than -1")
	}
	return nil
}

// applyDefaults sets default values for any unset fields in Options.
func (o *Options) applyDefaults() {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.MaxRetries == -1 {
		o.MaxRetries = 0
	}
}

// Client is a stateless wrapper over the remote git-object REST surface.
// Each method performs exactly one round-trip and returns either a typed
// value or a classified error; no local state is touched.
type Client struct {
	baseURL    string
	owner      string
	repo       string
	credential string
	httpClient *http.Client
	logger     *zap.Logger
	maxRetries int
}

// New creates a remote object client from the given options.
func New(opts *Options) (*Client, error) {
	if opts == nil {
		return nil, fmt.Errorf("options are required")
	}
	if err := opts.Validate(); err != nil {
		return nil, WrapError(err, "invalid options")
	}

	o := *opts
	o.applyDefaults()

	return &Client{
		baseURL:    strings.TrimRight(o.BaseURL, "/"),
		owner:      o.Owner,
		repo:       o.Repo,
		credential: o.Credential,
		httpClient: o.HTTPClient,
		logger:     o.Logger,
		maxRetries: o.MaxRetries,
	}, nil
}

// repoPath builds an API path under the target repository.
func (c *Client) repoPath(suffix string) string {
	return fmt.Sprintf("/repos/%s/%s%s", url.PathEscape(c.owner), url.PathEscape(c.repo), suffix)
}

// escapePath escapes each segment of a slash-separated file path so it can
// be embedded in a URL without collapsing the separators.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// do performs one request against the API, retrying transport-level failures
// with jittered backoff. On success the response body is decoded into out
// (which may be nil). Non-success responses yield an *APIError; callers are
// expected to classify it before returning.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepWithJitter(ctx, attempt); err != nil {
				return WrapError(ErrTransport, err.Error())
			}
			c.logger.Debug("retrying request",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("attempt", attempt))
		}

		retryable, err := c.doOnce(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}
		if !retryable {
			return err
		}
		lastErr = err
	}

	return lastErr
}

// doOnce performs a single round-trip. The first return value reports
// whether the failure is transport-level and safe to retry.
func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte, out interface{}) (bool, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return false, WrapError(ErrTransport, err.Error())
	}

	req.Header.Set("Authorization", "Bearer "+c.credential)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, WrapError(ErrTransport, err.Error())
		}
		return true, WrapError(ErrTransport, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return false, nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, WrapError(ErrTransport, "failed to decode response: "+err.Error())
		}
		return false, nil
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    readErrorMessage(resp.Body),
	}

	// Server-side failures are transient from the client's perspective.
	// Blob creation is content-addressed and therefore idempotent, which is
	// what makes retrying writes safe at all.
	return resp.StatusCode >= 500, apiErr
}

// readErrorMessage extracts the "message" field from an error response body,
// falling back to the raw text when the body is not JSON.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return strings.TrimSpace(string(raw))
}

// sleepWithJitter waits for an exponentially growing, jittered delay,
// aborting early if the context is cancelled.
func sleepWithJitter(ctx context.Context, attempt int) error {
	delay := retryBaseDelay << (attempt - 1)
	// Half fixed, half random, so concurrent clients do not retry in lockstep.
	delay = delay/2 + rand.N(delay/2+1)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
