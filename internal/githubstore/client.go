// Package githubstore implements the Store interface on top of the
// GitHub repository contents API. The backing file doubles as an audit
// trail: every write is a commit whose message describes the change.
package githubstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/slateplan/slateplan/pkg/types"
)

const defaultBaseURL = "https://api.github.com"

// Client reads and writes one file in one repository. It never retries
// and never resolves conflicts; that policy belongs to the caller.
type Client struct {
	cfg  types.StoreConfig
	http *http.Client
	log  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New validates cfg and returns a client for the configured file.
func New(cfg types.StoreConfig, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// contentsResponse is the contents API's shape for a single file.
type contentsResponse struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
	SHA      string `json:"sha"`
}

// putRequest is the contents API's write payload. An empty SHA is
// omitted, which the API treats as "create this file".
type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

type putResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// ReadCollection fetches the backing file. An absent file, or a path
// that resolves to a directory, is reported as an empty collection with
// no revision rather than an error; the first write will create it.
func (c *Client) ReadCollection(ctx context.Context) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.contentsURL(true), nil)
	if err != nil {
		return nil, "", &types.StoreError{Message: err.Error()}
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", &types.StoreError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &types.StoreError{Status: resp.StatusCode, Message: err.Error()}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return []byte("[]"), "", nil
	case resp.StatusCode != http.StatusOK:
		return nil, "", &types.StoreError{Status: resp.StatusCode, Message: apiMessage(body)}
	}

	var contents contentsResponse
	if err := json.Unmarshal(body, &contents); err != nil {
		// A directory at the configured path comes back as a JSON array
		// of entries; treat it like an absent file instead of failing
		// the read path.
		var dir []contentsResponse
		if json.Unmarshal(body, &dir) == nil {
			return []byte("[]"), "", nil
		}
		return nil, "", &types.StoreError{Status: resp.StatusCode, Message: fmt.Sprintf("decode contents response: %v", err)}
	}
	if contents.Type != "" && contents.Type != "file" {
		return []byte("[]"), "", nil
	}

	raw, err := decodeContent(contents)
	if err != nil {
		return nil, "", &types.StoreError{Status: resp.StatusCode, Message: err.Error()}
	}

	c.log.Debug().Str("rev", contents.SHA).Int("bytes", len(raw)).Msg("read collection")
	return raw, contents.SHA, nil
}

// WriteCollection commits the full blob. rev must be the revision the
// caller read; empty means create. A precondition failure surfaces as
// *ConflictError, anything else as *StoreError.
func (c *Client) WriteCollection(ctx context.Context, raw []byte, rev string, message string) (string, error) {
	payload, err := json.Marshal(putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(raw),
		SHA:     rev,
		Branch:  c.cfg.Branch,
	})
	if err != nil {
		return "", &types.StoreError{Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(false), bytes.NewReader(payload))
	if err != nil {
		return "", &types.StoreError{Message: err.Error()}
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &types.StoreError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &types.StoreError{Status: resp.StatusCode, Message: err.Error()}
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusConflict:
		return "", &types.ConflictError{Revision: rev}
	case http.StatusUnprocessableEntity:
		// The API reports a stale or missing sha on this status too,
		// e.g. when two writers race to create the file.
		msg := apiMessage(body)
		if strings.Contains(strings.ToLower(msg), "sha") {
			return "", &types.ConflictError{Revision: rev}
		}
		return "", &types.StoreError{Status: resp.StatusCode, Message: msg}
	default:
		return "", &types.StoreError{Status: resp.StatusCode, Message: apiMessage(body)}
	}

	var put putResponse
	if err := json.Unmarshal(body, &put); err != nil {
		return "", &types.StoreError{Status: resp.StatusCode, Message: fmt.Sprintf("decode write response: %v", err)}
	}

	c.log.Info().Str("rev", put.Content.SHA).Str("commit", message).Msg("wrote collection")
	return put.Content.SHA, nil
}

// contentsURL builds the contents endpoint for the configured file.
// The branch ref travels as a query parameter on reads and inside the
// body on writes.
func (c *Client) contentsURL(withRef bool) string {
	base := c.cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	segments := strings.Split(c.cfg.Path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		strings.TrimSuffix(base, "/"),
		url.PathEscape(c.cfg.Owner),
		url.PathEscape(c.cfg.Repo),
		strings.Join(segments, "/"))
	if withRef && c.cfg.Branch != "" {
		u += "?ref=" + url.QueryEscape(c.cfg.Branch)
	}
	return u
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
}

// decodeContent unwraps the base64 transport encoding. The API wraps
// the payload at 60 columns, so newlines are stripped first.
func decodeContent(c contentsResponse) ([]byte, error) {
	if c.Encoding != "" && c.Encoding != "base64" {
		return nil, fmt.Errorf("unexpected content encoding %q", c.Encoding)
	}
	compact := strings.ReplaceAll(c.Content, "\n", "")
	raw, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return raw, nil
}

// apiMessage extracts the API's human-readable error message, falling
// back to the raw body.
func apiMessage(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Message != "" {
		return er.Message
	}
	return strings.TrimSpace(string(body))
}
