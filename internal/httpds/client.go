// Package httpds is the small HTTP client behind the one-shot brand
// directory fetch and the catalog API calls. The design keeps a tiny,
// explicit API (Get, Do), respects context cancellation, and is testable by
// injecting a custom RoundTripper. There is deliberately no retry or backoff:
// each run assumes a single successful fetch, and a failure is fatal to the
// stage that needed it.
package httpds

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"time"
)

// Config configures the client. Zero values get defaults (Timeout: 30s).
type Config struct {
	// Timeout is the per-request timeout applied at the http.Client level.
	Timeout time.Duration

	// BaseHeaders are added to every request; per-request headers take
	// precedence.
	BaseHeaders http.Header

	// InsecureSkipVerify disables TLS certificate verification. Use with
	// care; it exists for internal endpoints with self-signed certificates.
	InsecureSkipVerify bool

	// Transport optionally replaces the default *http.Transport.
	Transport http.RoundTripper
}

type Client struct {
	httpClient  *http.Client
	baseHeaders http.Header
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // explicitly configurable
			},
		}
	}

	hdr := http.Header{}
	for k, vs := range cfg.BaseHeaders {
		for _, v := range vs {
			hdr.Add(k, v)
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		baseHeaders: hdr,
	}
}

// Get issues a GET request with the base headers plus headers.
// The returned *http.Response has a non-nil Body the caller must close.
func (c *Client) Get(ctx context.Context, url string, headers http.Header) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil, headers)
}

// Do issues a request with the given method, URL, and optional body.
func (c *Client) Do(ctx context.Context, method, url string, body []byte, headers http.Header) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return nil, err
	}
	for k, vs := range c.baseHeaders {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for k, vs := range headers {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return c.httpClient.Do(req)
}
