package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "md2epub/1.0 (+https://github.com/alnah/go-md2epub)"
)

// HTTP fetches files from a remote object store by resolving logical paths
// against a base URL.
type HTTP struct {
	base   *url.URL
	client *http.Client
}

// HTTPOption configures an HTTP source.
type HTTPOption func(*HTTP)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		if d > 0 {
			h.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTP) {
		if c != nil {
			h.client = c
		}
	}
}

// NewHTTP creates an HTTP source rooted at baseURL.
func NewHTTP(baseURL string, opts ...HTTPOption) (*HTTP, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base URL must be http or https: %q", baseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	h := &HTTP{
		base:   base,
		client: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Fetch downloads the object at the logical path p.
func (h *HTTP) Fetch(ctx context.Context, p string) ([]byte, error) {
	logical, err := cleanLogical(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, p)
	}
	// A path-only reference: ? and # are escaped, and a colon in the first
	// segment is never a scheme.
	target := h.base.ResolveReference(&url.URL{Path: logical}).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", target, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, target)
	}

	return readLimited(resp.Body, p)
}
