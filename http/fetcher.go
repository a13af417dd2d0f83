// Package http provides the HTTP implementation of versefetch.Fetcher with
// bounded timeouts, exponential-backoff retries on transient failures, and
// a browser-like identity drawn once per run from a rotation pool.
package http

import (
	"context"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/slokaweb/versefetch"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxAttempts is the default total number of request attempts
// (1 initial + retries).
const DefaultMaxAttempts = 3

// DefaultBackoffFactor is the multiplier for the exponential retry delay:
// delay = factor * 2^attempt.
const DefaultBackoffFactor = 0.3

// DefaultUserAgents is the identity rotation pool. One entry is drawn at
// construction and used for every request the fetcher makes.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/92.0.4515.107 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:90.0) Gecko/20100101 Firefox/90.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 11.5; rv:90.0) Gecko/20100101 Firefox/90.0",
}

// retryStatuses are the HTTP statuses considered transient. Anything else
// outside 2xx fails immediately without retry.
var retryStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Ensure Fetcher implements versefetch.Fetcher at compile time.
var _ versefetch.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content over HTTP. All requests from one Fetcher
// share a single connection pool and a single identity string.
type Fetcher struct {
	client        *http.Client
	timeout       time.Duration
	maxAttempts   int
	backoffFactor float64
	retryDelays   []time.Duration
	userAgents    []string
	userAgent     string
	rng           *rand.Rand
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxAttempts sets the total number of request attempts.
func WithMaxAttempts(n int) Option {
	return func(f *Fetcher) {
		f.maxAttempts = n
	}
}

// WithBackoffFactor sets the exponential backoff multiplier.
func WithBackoffFactor(factor float64) Option {
	return func(f *Fetcher) {
		f.backoffFactor = factor
	}
}

// WithRetryDelays replaces the computed backoff delays with an explicit
// schedule. This is useful for testing without waiting for real delays.
func WithRetryDelays(delays []time.Duration) Option {
	return func(f *Fetcher) {
		f.retryDelays = delays
	}
}

// WithUserAgents sets the identity rotation pool. The fetcher draws one
// entry at construction; the pool itself is never mutated.
func WithUserAgents(pool []string) Option {
	return func(f *Fetcher) {
		f.userAgents = pool
	}
}

// WithRand sets the random source used to draw the identity.
func WithRand(rng *rand.Rand) Option {
	return func(f *Fetcher) {
		f.rng = rng
	}
}

// NewFetcher creates a new HTTP Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:       DefaultFetchTimeout,
		maxAttempts:   DefaultMaxAttempts,
		backoffFactor: DefaultBackoffFactor,
		userAgents:    DefaultUserAgents,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.rng == nil {
		f.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if len(f.userAgents) > 0 {
		f.userAgent = f.userAgents[f.rng.IntN(len(f.userAgents))]
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// UserAgent returns the identity drawn for this run. The permission gate
// queries site policy with the same identity the fetcher presents.
func (f *Fetcher) UserAgent() string {
	return f.userAgent
}

// Fetch retrieves the HTML content from the given URL, retrying transient
// failures with exponential backoff. Non-transient HTTP error statuses
// surface immediately as EUNAVAILABLE.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(f.delay(attempt - 1)):
			}
		}

		body, retryable, err := f.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !retryable {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (body string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, versefetch.Errorf(versefetch.EINVALID, "invalid request URL %q: %v", url, err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		// Connection-level failures are transient by policy.
		return "", true, versefetch.Errorf(versefetch.EUNAVAILABLE, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", retryStatuses[resp.StatusCode],
			versefetch.Errorf(versefetch.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, versefetch.Errorf(versefetch.EUNAVAILABLE, "read body of %s: %v", url, err)
	}
	return string(b), false, nil
}

// delay returns the backoff delay after the given 0-based attempt.
func (f *Fetcher) delay(attempt int) time.Duration {
	if f.retryDelays != nil {
		if attempt < len(f.retryDelays) {
			return f.retryDelays[attempt]
		}
		return 0
	}
	return time.Duration(f.backoffFactor * math.Pow(2, float64(attempt)) * float64(time.Second))
}

// Close releases resources. http.Client keeps idle connections in its
// transport; close them so a run cleans up after itself.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
