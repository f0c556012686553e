// Package remote implements the REST client for the git-object repository.
// This file contains path-addressed content reads and the base64 codec.
package remote

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// FileContent is the content of one file at a path and ref.
type FileContent struct {
	// Hash is the blob hash of the file content.
	Hash string

	// Content is the raw decoded file bytes.
	Content []byte

	// Size is the file size in bytes as reported by the remote.
	Size int64
}

// contentResponse mirrors the wire shape of the content-by-path endpoint.
type contentResponse struct {
	Type     string `json:"type"`
	SHA      string `json:"sha"`
	Size     int64  `json:"size"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// GetFileContent reads the file at path on the given ref.
// Returns ErrNotFound if the path or ref does not exist.
//
// The wire format carries file bytes as base64 text with line breaks
// inserted; decoding strips the whitespace and is binary-safe, so multi-byte
// UTF-8 content round-trips unchanged.
func (c *Client) GetFileContent(ctx context.Context, path, ref string) (*FileContent, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	reqPath := c.repoPath("/contents/" + escapePath(path))
	if ref != "" {
		reqPath += "?ref=" + url.QueryEscape(ref)
	}

	var resp contentResponse
	if err := c.do(ctx, http.MethodGet, reqPath, nil, &resp); err != nil {
		return nil, WrapErrorf(classify(err), "failed to read content at %q", path)
	}

	if resp.Type != "" && resp.Type != "file" {
		return nil, WrapErrorf(ErrNotFound, "path %q is a %s, not a file", path, resp.Type)
	}

	content, err := decodeContent(resp.Content, resp.Encoding)
	if err != nil {
		return nil, WrapErrorf(err, "failed to decode content at %q", path)
	}

	return &FileContent{
		Hash:    resp.SHA,
		Content: content,
		Size:    resp.Size,
	}, nil
}

// decodeContent decodes a wire-encoded file payload into raw bytes.
func decodeContent(content, encoding string) ([]byte, error) {
	switch encoding {
	case "base64", "":
		decoded, err := base64.StdEncoding.DecodeString(stripWhitespace(content))
		if err != nil {
			return nil, WrapError(ErrTransport, "invalid base64 payload: "+err.Error())
		}
		return decoded, nil
	default:
		return nil, WrapErrorf(ErrTransport, "unsupported content encoding %q", encoding)
	}
}

// encodeContent encodes raw bytes for transport.
func encodeContent(content []byte) string {
	return base64.StdEncoding.EncodeToString(content)
}

// stripWhitespace removes the line breaks the wire format inserts into
// base64 payloads.
func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)
}
