// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/chatsync/internal/util"
)

// DefaultPageSize is the page size requested from list endpoints.
const DefaultPageSize = 10

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the API client.
type ClientConfig struct {
	// BaseURL is the conversation service base URL (default: http://127.0.0.1:8000)
	// Note: Uses explicit IPv4 address instead of localhost to avoid IPv6 resolution issues on Windows
	BaseURL string

	// Timeout for non-streaming requests (default: 30s)
	Timeout time.Duration

	// PageSize for list endpoints (default: DefaultPageSize)
	PageSize int

	// RequestsPerSecond caps outbound request rate (default: 10)
	RequestsPerSecond float64

	// Burst for the rate limiter (default: 5)
	Burst int
}

// DefaultClientConfig returns the default client configuration.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://127.0.0.1:8000",
		Timeout:           30 * time.Second,
		PageSize:          DefaultPageSize,
		RequestsPerSecond: 10,
		Burst:             5,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the conversation service.
//
// The Client is thread-safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new API client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultClientConfig())
}

// NewClientWithConfig creates a new API client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultClientConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8000"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.PageSize == 0 {
		config.PageSize = DefaultPageSize
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 10
	}
	if config.Burst == 0 {
		config.Burst = 5
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
	}
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// =============================================================================
// REQUEST CORE
// =============================================================================

// do issues a JSON request and decodes the response into out.
// A nil out discards the body; a 204 answer always succeeds with no body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return &TransportError{Op: method + " " + path, Message: "failed to marshal request", Cause: err}
		}
		body = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Op: method + " " + path, Message: "rate limit wait cancelled", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapDoError(method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return errorFromResponse(resp.StatusCode, raw)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: method + " " + path, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// doRaw issues a request whose response body the caller consumes.
// Used for streaming and file downloads; the per-request timeout is
// dropped so long-lived bodies are bounded by ctx alone.
func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) (*http.Response, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &TransportError{Op: method + " " + path, Message: "rate limit wait cancelled", Cause: err}
	}

	rawClient := &http.Client{Transport: c.httpClient.Transport}
	resp, err := rawClient.Do(req)
	if err != nil {
		return nil, wrapDoError(method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		resp.Body.Close()
		return nil, errorFromResponse(resp.StatusCode, raw)
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.config.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &TransportError{Op: method + " " + path, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func wrapDoError(method, path string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{Op: method + " " + path, Message: "request timed out", Cause: err}
	}
	return &TransportError{Op: method + " " + path, Message: "request failed", Cause: err}
}

// pageQuery builds the limit/next_cursor query for list endpoints.
// A zero cursor means "from the top" and is omitted.
func (c *Client) pageQuery(nextCursor int64) url.Values {
	query := url.Values{}
	query.Set("limit", util.IntToString(c.config.PageSize))
	if nextCursor != 0 {
		query.Set("next_cursor", util.Int64ToString(nextCursor))
	}
	return query
}
