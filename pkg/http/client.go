package http

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
)

const (
	MethodGet    = http.MethodGet
	MethodPost   = http.MethodPost
	MethodPut    = http.MethodPut
	MethodDelete = http.MethodDelete
)

// maxErrorBody bounds how much of a failed response is kept for StatusError.
const maxErrorBody = 64 << 10

// ClientOption configures Client.
type ClientOption func(*Client)

// RequestOptions describes one call. Path is joined onto the base URL when
// URL is empty.
type RequestOptions struct {
	Method      string
	URL         string
	Path        string
	Headers     map[string]string
	QueryParams url.Values
	Body        interface{}
}

// Client talks JSON to the holdings backend and fetches dashboard documents.
type Client struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	return c
}

// SendAndParse performs the request and decodes a 2xx body into dest.
// A *[]byte dest receives the raw body, a nil dest discards it. Other
// statuses come back as *StatusError.
func (c *Client) SendAndParse(ctx context.Context, opts *RequestOptions, dest interface{}) error {
	req, err := c.newRequest(ctx, opts)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newStatusError(resp.StatusCode, body)
	}

	switch v := dest.(type) {
	case nil:
		_, _ = io.Copy(io.Discard, resp.Body)
	case *[]byte:
		if *v, err = io.ReadAll(resp.Body); err != nil {
			return fmt.Errorf("read body: %w", err)
		}
	default:
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("decode json: %w", err)
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, opts *RequestOptions) (*http.Request, error) {
	var body io.Reader
	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		body = bytes.NewReader(b)
	}

	target := opts.URL
	if target == "" {
		target = c.baseURL + "/" + strings.TrimLeft(opts.Path, "/")
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, target, body)
	if err != nil {
		return nil, err
	}
	if len(opts.QueryParams) > 0 {
		req.URL.RawQuery = opts.QueryParams.Encode()
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithBaseURL sets the URL that request paths are resolved against.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}
