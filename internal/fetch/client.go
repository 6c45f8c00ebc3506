package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultMaxBodyBytes = 8 << 20

// Response is the outcome of one request. Status is 0 when the request never
// produced an HTTP response.
type Response struct {
	Status  int
	Body    []byte
	Err     error
	Latency time.Duration
}

// OK reports whether the request completed with a 2xx status.
func (r Response) OK() bool {
	return r.Err == nil && r.Status >= 200 && r.Status < 300
}

// Failure describes why a response is unusable, or "" when it is OK.
func (r Response) Failure() string {
	switch {
	case r.Err != nil:
		return "transport: " + r.Err.Error()
	case !r.OK():
		return fmt.Sprintf("http status %d", r.Status)
	default:
		return ""
	}
}

// DecodeJSON unmarshals the body of a successful response into v.
func (r Response) DecodeJSON(v any) error {
	if !r.OK() {
		return errors.New(r.Failure())
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// Fetcher issues GET requests.
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) Response
}

// Func adapts a plain function to Fetcher.
type Func func(ctx context.Context, url string, headers map[string]string) Response

func (f Func) Fetch(ctx context.Context, url string, headers map[string]string) Response {
	return f(ctx, url, headers)
}

// Client is the net/http backed Fetcher.
type Client struct {
	httpClient   *http.Client
	userAgent    string
	maxBodyBytes int64
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithMaxBodyBytes caps how much of a response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// New creates a Client that sends userAgent on every request unless the
// caller overrides it per request.
func New(userAgent string, opts ...Option) *Client {
	client := &Client{
		httpClient:   &http.Client{Timeout: 20 * time.Second},
		userAgent:    strings.TrimSpace(userAgent),
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Fetch performs a GET request. It never panics and never returns a nil body
// on success.
func (c *Client) Fetch(ctx context.Context, url string, headers map[string]string) Response {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return Response{Err: fmt.Errorf("execute request (latency=%v): %w", latency, err), Latency: latency}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return Response{Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err), Latency: latency}
	}
	if body == nil {
		body = []byte{}
	}
	return Response{Status: resp.StatusCode, Body: body, Latency: latency}
}

// SleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
