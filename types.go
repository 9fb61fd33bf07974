package md2epub

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Fetcher reads a file of the book by its logical, slash-separated path
// relative to the book root. Missing files return an error wrapping
// ErrNotFound.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// ManifestStore loads a manifest and saves it back. Stores that cannot
// persist return ErrReadOnlyStore from Save.
type ManifestStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	// Format reports "json" or "yaml".
	Format() string
}

// Renderer converts markdown to an XHTML fragment.
type Renderer interface {
	Render(ctx context.Context, markdown string) (string, error)
}

// Option configures a Generator.
type Option func(*Generator)

// DefaultConcurrency bounds parallel fetches when WithConcurrency is unset.
const DefaultConcurrency = 8

// WithFetcher sets where content files, stylesheets and images are read
// from. Required by Build and Generate.
func WithFetcher(f Fetcher) Option {
	return func(g *Generator) {
		g.fetcher = f
	}
}

// WithRenderer replaces the markdown renderer.
func WithRenderer(r Renderer) Option {
	return func(g *Generator) {
		g.renderer = r
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithConcurrency bounds parallel fetches.
// Panics if n <= 0 (programmer error, similar to time.NewTicker).
func WithConcurrency(n int) Option {
	if n <= 0 {
		panic("md2epub: WithConcurrency limit must be positive")
	}
	return func(g *Generator) {
		g.concurrency = n
	}
}

// WithStylesheet replaces the fixed stylesheet written to every book.
func WithStylesheet(css string) Option {
	return func(g *Generator) {
		g.stylesheet = css
	}
}

// WithClock sets the time source used for default dates.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// discardLogger drops every record.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
