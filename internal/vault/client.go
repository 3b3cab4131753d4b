// Package vault is the HTTP client for the vault REST API.
package vault

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/vault-mcp/internal/common"
)

// maxResponseSize caps the response body read from the vault.
const maxResponseSize = 50 << 20 // 50MB

// Client executes Requests against one vault base URL. It holds no mutable
// state and is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	headers    http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sends "Authorization: Bearer <key>" on every request. Empty keys are ignored.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		if key != "" {
			c.headers.Set("Authorization", "Bearer "+key)
		}
	}
}

// WithTimeout sets an overall per-request timeout. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a client for baseURL. A trailing slash on baseURL is ignored.
func NewClient(baseURL string, logger *common.Logger, opts ...Option) *Client {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
		headers:    headers,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs one request and decodes the JSON response. There are no retries.
// Non-2xx responses return *StatusError; undecodable bodies wrap ErrInvalidJSON.
// A 204 response yields a nil value.
func (c *Client) Do(ctx context.Context, r Request) (any, error) {
	correlationID, ok := CorrelationID(ctx)
	if !ok {
		correlationID = uuid.NewString()
	}
	logger := c.logger.WithCorrelationId(correlationID)
	target := r.Target()

	var bodyReader io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, c.baseURL+target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for key, vals := range c.headers {
		for _, v := range vals {
			req.Header.Set(key, v)
		}
	}
	req.Header.Set("X-Correlation-ID", correlationID)

	logger.Debug().Str("method", r.Method).Str("path", target).Msg("vault request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		logger.Error().Str("method", r.Method).Str("path", target).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("vault request failed")
		return nil, fmt.Errorf("vault request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	logger.Debug().Str("method", r.Method).Str("path", target).Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("vault response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp.StatusCode, resp.Status, body)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	return decodeJSON(body)
}

// decodeJSON parses exactly one JSON value, keeping numbers as json.Number.
func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrInvalidJSON)
	}
	return v, nil
}
