// Package http fetches Doxygen search data from a documentation site over
// HTTP.
package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/docsearch"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// MaxBodySize caps the size of a fetched file.
const MaxBodySize = 64 << 20

// Ensure Fetcher implements docsearch.Fetcher at compile time.
var _ docsearch.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves search data files relative to a base URL.
type Fetcher struct {
	client  *http.Client
	base    *url.URL
	timeout time.Duration
	limiter *HostLimiter
	delays  []time.Duration
	logger  *slog.Logger
	baseErr error
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRateLimit limits requests to rps per second per host.
// Zero disables limiting.
func WithRateLimit(rps float64) Option {
	return func(f *Fetcher) {
		if rps <= 0 {
			f.limiter = nil
			return
		}
		f.limiter = NewHostLimiter(rps)
	}
}

// WithLimiter shares limiter between fetchers. A nil limiter disables limiting.
func WithLimiter(limiter *HostLimiter) Option {
	return func(f *Fetcher) {
		f.limiter = limiter
	}
}

// WithRetry retries transient failures once after each of delays.
func WithRetry(delays ...time.Duration) Option {
	return func(f *Fetcher) {
		f.delays = delays
	}
}

// WithLogger sets the logger used to report retries.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithBaseURL resolves file names against rawURL. A base without a
// trailing slash is treated as a directory.
func WithBaseURL(rawURL string) Option {
	return func(f *Fetcher) {
		u, err := url.Parse(rawURL)
		if err != nil || !u.IsAbs() {
			f.base = nil
			f.baseErr = docsearch.Errorf(docsearch.EINVALID, "invalid base URL %q", rawURL)
			return
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		f.base = u
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the file name, resolved against the base URL.
// Returns ENOTFOUND for a 404 response.
func (f *Fetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if f.baseErr != nil {
		return nil, f.baseErr
	}
	if f.base == nil {
		return nil, docsearch.Errorf(docsearch.EINVALID, "base URL required")
	}
	ref, err := url.Parse(name)
	if err != nil {
		return nil, docsearch.Errorf(docsearch.EINVALID, "invalid file name %q", name)
	}
	return f.Get(ctx, f.base.ResolveReference(ref).String())
}

// Get retrieves the body of an absolute URL, retrying transient failures
// when configured with WithRetry.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() {
		return nil, docsearch.Errorf(docsearch.EINVALID, "invalid URL %q", rawURL)
	}
	return withRetry(ctx, f.delays, func(ctx context.Context) ([]byte, error) {
		return f.get(ctx, u)
	}, func(attempt int, err error) {
		f.logger.Warn("retrying request", "url", rawURL, "attempt", attempt, "err", err)
	})
}

func (f *Fetcher) get(ctx context.Context, u *url.URL) ([]byte, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, docsearch.Errorf(docsearch.ENOTFOUND, "%s not found", u)
	case resp.StatusCode != http.StatusOK:
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: u.String()}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxBodySize {
		return nil, docsearch.Errorf(docsearch.EMALFORMED, "response from %s exceeds %d bytes", u, MaxBodySize)
	}
	return body, nil
}

// StatusError reports an unexpected HTTP status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}
