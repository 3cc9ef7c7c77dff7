// Package client talks to a running viewer over its JSON API, for
// scripts and tools that want the records without scraping the page.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client provides HTTP access to a viewer started with `upv view`.
type Client struct {
	baseURL  string
	basePath string
	client   *http.Client
	logger   *slog.Logger
}

// Config holds client configuration.
type Config struct {
	// BaseURL is the viewer's root address, e.g. "http://127.0.0.1:8765".
	BaseURL string
	// BasePath is the prefix the viewer serves under, empty for none.
	BasePath string
	Timeout  time.Duration
	Logger   *slog.Logger // Optional logger for client operations
}

// DefaultConfig targets a viewer on the default local address.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://127.0.0.1:8765",
		Timeout: 10 * time.Second,
	}
}

// New creates a viewer API client.
func New(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8765"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Client{
		baseURL:  strings.TrimRight(config.BaseURL, "/"),
		basePath: normalizeBasePath(config.BasePath),
		logger:   config.Logger,
		client:   &http.Client{Timeout: config.Timeout},
	}
}

// IsReachable checks that a viewer answers at the configured address.
func (c *Client) IsReachable(ctx context.Context) bool {
	h, err := c.Healthz(ctx)
	if err != nil {
		c.logger.Debug("viewer unreachable", "url", c.baseURL, "error", err)
		return false
	}
	return h.Status == "ok"
}

// Healthz fetches the health summary. It lives at the server root,
// outside any base path.
func (c *Client) Healthz(ctx context.Context) (Health, error) {
	var h Health
	err := c.getJSON(ctx, c.baseURL+"/healthz", &h, false)
	return h, err
}

// Veterans fetches one page of the veteran list. Non-positive offset
// and limit fall back to the server defaults.
func (c *Client) Veterans(ctx context.Context, offset, limit int) (VeteranPage, error) {
	q := url.Values{}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	u := c.apiURL("/api/veterans")
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var page VeteranPage
	err := c.getJSON(ctx, u, &page, false)
	return page, err
}

// Veteran fetches one full record. Numbers decode as json.Number so
// large ids stay exact.
func (c *Client) Veteran(ctx context.Context, index int) (map[string]any, error) {
	var rec map[string]any
	err := c.getJSON(ctx, c.apiURL("/api/veterans/"+strconv.Itoa(index)), &rec, true)
	return rec, err
}

// Stats fetches the collection statistics.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := c.getJSON(ctx, c.apiURL("/api/stats"), &s, false)
	return s, err
}

func (c *Client) apiURL(path string) string {
	return c.baseURL + c.basePath + path
}

// getJSON performs a GET and decodes the JSON response into v.
func (c *Client) getJSON(ctx context.Context, url string, v any, useNumber bool) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return c.errorFrom(resp)
	}
	dec := json.NewDecoder(resp.Body)
	if useNumber {
		dec.UseNumber()
	}
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorFrom turns a non-200 response into an error, using the API
// error envelope when the body carries one.
func (c *Client) errorFrom(resp *http.Response) error {
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
		c.logger.Error("API request failed", "status", resp.StatusCode)
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return fmt.Errorf("API error: %s", errResp.Error)
}

// normalizeBasePath mirrors the server's base path handling: empty and
// "/" mean none, anything else gets a leading slash and no trailing one.
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}
