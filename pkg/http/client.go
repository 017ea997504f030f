package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"MacroBoard/pkg/ratelimit"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// ClientOption configures Client.
type ClientOption func(*Client)

// Client is a read-only HTTP client for upstream data providers. Requests
// are throttled per host so free-tier APIs are not hammered.
type Client struct {
	timeout    time.Duration
	userAgent  string
	limiter    *ratelimit.Limiter
	capacity   float64
	refillRate float64
	client     *http.Client
}

// NewClient creates a new HTTP client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		timeout:    30 * time.Second,
		userAgent:  defaultUserAgent,
		limiter:    ratelimit.New(),
		capacity:   4,
		refillRate: 0.5,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = &http.Client{Timeout: c.timeout}
	return c
}

// GetJSON fetches rawURL and decodes the JSON body into dest.
func (c *Client) GetJSON(ctx context.Context, rawURL string, headers map[string]string, dest interface{}) error {
	body, err := c.get(ctx, rawURL, headers)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(dest); err != nil {
		return fmt.Errorf("decode json from %s: %w", rawURL, err)
	}
	return nil
}

// GetText fetches rawURL and returns the body as a string.
func (c *Client) GetText(ctx context.Context, rawURL string, headers map[string]string) (string, error) {
	body, err := c.get(ctx, rawURL, headers)
	if err != nil {
		return "", err
	}
	defer body.Close()

	b, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read body from %s: %w", rawURL, err)
	}
	return string(b), nil
}

// GetBody fetches rawURL and returns the raw body stream. The caller
// must close it.
func (c *Client) GetBody(ctx context.Context, rawURL string, headers map[string]string) (io.ReadCloser, error) {
	return c.get(ctx, rawURL, headers)
}

func (c *Client) get(ctx context.Context, rawURL string, headers map[string]string) (io.ReadCloser, error) {
	if err := c.throttle(ctx, rawURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", rawURL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, rawURL, strings.TrimSpace(string(body)))
	}

	return resp.Body, nil
}

func (c *Client) throttle(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	return c.limiter.Wait(ctx, u.Host, c.capacity, c.refillRate)
}

// WithTimeout sets the client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header for all requests.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateLimit sets the per-host token bucket parameters.
func WithRateLimit(capacity, refillPerSec float64) ClientOption {
	return func(c *Client) {
		if capacity > 0 {
			c.capacity = capacity
		}
		if refillPerSec > 0 {
			c.refillRate = refillPerSec
		}
	}
}
