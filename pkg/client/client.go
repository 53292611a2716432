// Package client talks to a running entitymap server.
//
// Reads retry transient failures (network errors and 5xx responses) with
// exponential backoff. Deletes are sent once and treat 404 as success, so
// a [Client] can be passed straight to the mindmap controller as its
// Deleter.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/entitymap/pkg/errors"
	"github.com/matzehuels/entitymap/pkg/httputil"
	"github.com/matzehuels/entitymap/pkg/mindmap"
	"github.com/matzehuels/entitymap/pkg/model"
	"github.com/matzehuels/entitymap/pkg/observability"
)

const httpTimeout = 10 * time.Second

// Client is an HTTP client for the entitymap API.
type Client struct {
	base    *url.URL
	http    *http.Client
	backoff httputil.Backoff
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithBackoff sets the retry policy for reads.
func WithBackoff(b httputil.Backoff) Option {
	return func(c *Client) { c.backoff = b }
}

// New returns a client for the server at baseURL, e.g. "http://localhost:3000".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid server URL %q", baseURL)
	}
	c := &Client{
		base:    u,
		http:    &http.Client{Timeout: httpTimeout},
		backoff: httputil.DefaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Data fetches the whole knowledge base.
func (c *Client) Data(ctx context.Context) (model.Data, error) {
	var d model.Data
	err := httputil.Retry(ctx, c.backoff, func() error {
		return c.do(ctx, http.MethodGet, "/api/data", nil, &d)
	})
	return d, err
}

// Backlinks fetches the entities that link to id.
func (c *Client) Backlinks(ctx context.Context, id string) ([]model.Entity, error) {
	var out []model.Entity
	err := httputil.Retry(ctx, c.backoff, func() error {
		return c.do(ctx, http.MethodGet, "/api/entities/"+url.PathEscape(id)+"/backlinks", nil, &out)
	})
	return out, err
}

// Replace overwrites the server's document. It is not retried.
func (c *Client) Replace(ctx context.Context, data model.Data) error {
	return c.do(ctx, http.MethodPost, "/api/data", data, nil)
}

// DeleteEntity deletes one entity. A missing entity counts as deleted.
func (c *Client) DeleteEntity(ctx context.Context, id string) error {
	err := c.do(ctx, http.MethodDelete, "/api/entities/"+url.PathEscape(id), nil, nil)
	if errors.IsNotFound(err) {
		return nil
	}
	return err
}

var _ mindmap.Deleter = (*Client)(nil)

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	u := *c.base
	u.Path += path
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, method, u.Host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, u.Host, path, err)
		return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, fmt.Errorf("%w: %v", httputil.ErrNetwork, err), "%s %s", method, path))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, method, u.Host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiError mirrors the server's JSON error body.
type apiError struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}

	var body apiError
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
	if body.Error == "" {
		body.Error = http.StatusText(code)
	}

	switch {
	case code >= 500:
		return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork,
			fmt.Errorf("%w: status %d", httputil.ErrNetwork, code), "server error: %s", body.Error))
	case code == http.StatusNotFound && body.Code == "":
		body.Code = errors.ErrCodeNotFound
	case body.Code == "":
		body.Code = errors.ErrCodeInvalidInput
	}
	return errors.New(body.Code, "%s", body.Error)
}
