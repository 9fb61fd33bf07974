package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// DefaultHighlightStyle is the chroma style used for code blocks.
const DefaultHighlightStyle = "github"

var (
	// ErrHTMLConversion indicates HTML conversion failed.
	ErrHTMLConversion = errors.New("HTML conversion failed")

	// ErrUnknownHighlightStyle indicates a chroma style name that is not registered.
	ErrUnknownHighlightStyle = errors.New("unknown highlight style")
)

// GoldmarkRenderer converts chapter markdown to XHTML body fragments.
//
// Raw HTML passes through unchanged: heading rewriting relies on it, and
// books are authored by the person generating them.
type GoldmarkRenderer struct {
	md goldmark.Markdown
}

// NewGoldmarkRenderer creates a renderer with GFM, footnotes, smart
// punctuation and class-based syntax highlighting.
func NewGoldmarkRenderer() *GoldmarkRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.Typographer,
			highlighting.NewHighlighting(
				highlighting.WithStyle(DefaultHighlightStyle),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // colors come from the book stylesheet
				),
			),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			html.WithUnsafe(),
		),
	)
	return &GoldmarkRenderer{md: md}
}

// Render converts markdown to an XHTML fragment.
// Goldmark doesn't support context, so conversion runs in a goroutine and
// Render returns early on cancellation.
func (r *GoldmarkRenderer) Render(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(convertHighlights(markdown)), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: ConvertMarkPlaceholders(buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// HighlightCSS returns the stylesheet rules for highlighted code blocks in
// the named chroma style.
func HighlightCSS(style string) (string, error) {
	if !slices.Contains(styles.Names(), style) {
		return "", fmt.Errorf("%w: %q", ErrUnknownHighlightStyle, style)
	}

	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(style)); err != nil {
		return "", fmt.Errorf("writing highlight CSS: %w", err)
	}
	return buf.String(), nil
}
