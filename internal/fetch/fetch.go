package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/acorn-hc/acorn-sports/internal/cache"
	"github.com/acorn-hc/acorn-sports/internal/metrics"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	DefaultUserAgent = "acorn-sports/1.0"
	DefaultTimeout   = 15 * time.Second
	DefaultRetryMax  = 2

	// maxBodyBytes caps a single upstream body
	maxBodyBytes = 8 << 20
)

// ErrEmptyBody is returned when the upstream answers 2xx with no content
var ErrEmptyBody = errors.New("empty response body")

// Fetcher retrieves the body at url
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// StatusError reports a non-2xx upstream response
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// Options configures a Client
type Options struct {
	UserAgent string
	Timeout   time.Duration
	RetryMax  int
	Metrics   *metrics.Metrics
	// HTTPClient overrides the underlying transport client (tests)
	HTTPClient *http.Client
}

// Client fetches pages from the athletics site
type Client struct {
	http      *retryablehttp.Client
	userAgent string
	metrics   *metrics.Metrics
}

// New creates a Client
func New(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RetryMax < 0 {
		opts.RetryMax = 0
	}

	rc := retryablehttp.NewClient()
	rc.Logger = log.New(io.Discard, "", 0)
	rc.RetryMax = opts.RetryMax
	rc.RetryWaitMin = 250 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if opts.HTTPClient != nil {
		rc.HTTPClient = opts.HTTPClient
	}
	rc.HTTPClient.Timeout = opts.Timeout

	return &Client{
		http:      rc,
		userAgent: opts.UserAgent,
		metrics:   opts.Metrics,
	}
}

// Fetch performs a GET and returns the body of a 2xx response
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordUpstream(0, time.Since(start).Seconds())
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	c.metrics.RecordUpstream(resp.StatusCode, time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	if len(body) == 0 {
		return "", ErrEmptyBody
	}
	return string(body), nil
}

// CachingFetcher serves repeated fetches of the same URL from a cache
type CachingFetcher struct {
	next  Fetcher
	cache *cache.Cache[string]
	ttl   time.Duration
}

// NewCachingFetcher wraps next. A ttl of zero disables caching.
func NewCachingFetcher(next Fetcher, c *cache.Cache[string], ttl time.Duration) *CachingFetcher {
	return &CachingFetcher{next: next, cache: c, ttl: ttl}
}

// Fetch returns a cached body or fetches and caches a successful one
func (f *CachingFetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.cache.GetOrCompute(ctx, "page:"+url, f.ttl, func(ctx context.Context) (string, error) {
		return f.next.Fetch(ctx, url)
	})
}
