// Package api talks to the remote compatibility service: the type catalog,
// the score endpoint and the health probe.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Veraticus/lovetype/internal/common"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 4 << 20

// BaseURLSource supplies the service base URL. It is consulted before every
// request so reconfiguration takes effect immediately.
type BaseURLSource interface {
	BaseURL() (string, error)
}

// Client is an HTTP client for the compatibility service.
type Client struct {
	source     BaseURLSource
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a client reading its base URL from source.
func NewClient(source BaseURLSource, opts ...Option) *Client {
	c := &Client{
		source: source,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// endpoint joins path onto the configured base URL.
func (c *Client) endpoint(path string) (string, error) {
	if c.source == nil {
		return "", common.ErrConfigurationMissing
	}
	base, err := c.source.BaseURL()
	if err != nil {
		return "", err
	}
	return base + path, nil
}

// response is a fully read HTTP response.
type response struct {
	body   []byte
	status int
}

func (r response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// do sends req and reads the whole body.
func (c *Client) do(req *http.Request) (response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return response{status: resp.StatusCode}, fmt.Errorf("failed to read response: %w", err)
	}
	return response{status: resp.StatusCode, body: body}, nil
}

// get issues a GET for path against the base URL.
func (c *Client) get(ctx context.Context, path string) (response, error) {
	url, err := c.endpoint(path)
	if err != nil {
		return response{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return response{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	return c.do(req)
}

// errorDetail extracts the `detail` field of an error body. Structured
// details are returned as compact JSON.
func errorDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}
	if string(envelope.Detail) == "null" {
		return ""
	}
	return string(envelope.Detail)
}

// snippet shortens a body for error messages.
func snippet(body []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "…"
	}
	return s
}
