// Package httpclient holds the HTTP plumbing shared by the manifest
// resolver, the providers and the download engine.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "mcfetch/0.1.0"

var (
	ErrNotFound  = errors.New("http: resource not found")
	ErrForbidden = errors.New("http: access forbidden")
)

// Doer abstracts HTTP operations for testing.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures the default client.
type Options struct {
	// UserAgent is set on requests that do not carry one.
	// Default: DefaultUserAgent
	UserAgent string

	// MaxIdleConnsPerHost sets the keep-alive pool size per upstream host.
	// Default: 10
	MaxIdleConnsPerHost int

	// Timeout bounds a whole request. Zero leaves timing to the caller's context.
	Timeout time.Duration
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		UserAgent:           DefaultUserAgent,
		MaxIdleConnsPerHost: 10,
	}
}

// New returns an *http.Client configured from opts.
func New(opts Options) *http.Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxIdleConnsPerHost <= 0 {
		opts.MaxIdleConnsPerHost = 10
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = opts.MaxIdleConnsPerHost
	transport.IdleConnTimeout = 90 * time.Second

	return &http.Client{
		Transport: &userAgentTransport{base: transport, userAgent: opts.UserAgent},
		Timeout:   opts.Timeout,
	}
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(req)
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// Is lets callers match 404 and 403 with ErrNotFound and ErrForbidden.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	}
	return false
}

// IsPermanent reports whether err carries a 404 or 403 status. Those are
// never retried.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrForbidden)
}

// Get issues a GET request and returns the response when the status is 2xx.
// On any other status the body is drained and closed and a *StatusError is
// returned.
func Get(ctx context.Context, c Doer, url string) (*http.Response, error) {
	return do(ctx, c, http.MethodGet, url)
}

// Head issues a HEAD request and reports whether it returned 2xx.
func Head(ctx context.Context, c Doer, url string) error {
	resp, err := do(ctx, c, http.MethodHead, url)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func do(ctx context.Context, c Doer, method, url string) (*http.Response, error) {
	if c == nil {
		c = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return resp, nil
}
