// Package host provides the I/O capabilities the switcher needs from its
// environment: fetching console pages, opening URLs and knowing which console
// page the user is on.
package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stackswitch/cli/pkg/directory"
)

const (
	// DefaultFetchTimeout bounds a single directory fetch
	DefaultFetchTimeout = 15 * time.Second

	maxBodyBytes = 8 << 20
)

// ErrLoginRequired means the console answered with its login page.
var ErrLoginRequired = errors.New("console redirected to its login page")

// Gate decides whether a URL may be fetched.
type Gate interface {
	Check(target string) error
}

// Credentials supplies the Cookie header for an origin.
type Credentials interface {
	Get(origin string) (string, bool, error)
}

// HTTPFetcher fetches console pages with the user's session cookie.
type HTTPFetcher struct {
	Client      *http.Client
	Gate        Gate
	Credentials Credentials
	UserAgent   string
}

// NewHTTPFetcher returns a fetcher whose requests time out after timeout.
func NewHTTPFetcher(gate Gate, creds Credentials, timeout time.Duration, userAgent string) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &HTTPFetcher{
		Client:      &http.Client{Timeout: timeout},
		Gate:        gate,
		Credentials: creds,
		UserAgent:   userAgent,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, target string) ([]byte, error) {
	if f.Gate != nil {
		if err := f.Gate.Check(target); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	if f.Credentials != nil {
		u, _ := url.Parse(target)
		cookie, ok, err := f.Credentials.Get(u.Scheme + "://" + u.Host)
		if err != nil {
			return nil, err
		}
		if ok {
			req.Header.Set("Cookie", cookie)
		}
	}

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &directory.FetchError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &directory.FetchError{URL: target, StatusCode: resp.StatusCode}
	}

	if resp.Request != nil && strings.Contains(resp.Request.URL.Path, "/auth/login") {
		return nil, &directory.FetchError{URL: target, Err: ErrLoginRequired}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &directory.FetchError{URL: target, Err: err}
	}
	return body, nil
}
