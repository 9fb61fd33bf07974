package md2epub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-md2epub/internal/archive"
	"github.com/alnah/go-md2epub/internal/assets"
	"github.com/alnah/go-md2epub/internal/epub"
	"github.com/alnah/go-md2epub/internal/pipeline"
	"github.com/alnah/go-md2epub/internal/source"
)

// Compile-time interface implementation checks.
var (
	_ Fetcher       = (*source.Dir)(nil)
	_ Fetcher       = (*source.HTTP)(nil)
	_ ManifestStore = (*source.File)(nil)
	_ ManifestStore = (*source.Reader)(nil)
	_ Renderer      = (*pipeline.GoldmarkRenderer)(nil)
)

// Generator builds EPUB books from a manifest and markdown chapters.
// Create with NewGenerator; a Generator is safe for concurrent use.
type Generator struct {
	fetcher     Fetcher
	renderer    Renderer
	logger      *slog.Logger
	concurrency int
	stylesheet  string
	now         func() time.Time
}

// NewGenerator creates a Generator. Use WithFetcher to set where book files
// are read from.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		renderer:    pipeline.NewGoldmarkRenderer(),
		logger:      discardLogger(),
		concurrency: DefaultConcurrency,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.stylesheet == "" {
		g.stylesheet = assets.DefaultStyle()
	}
	highlight, err := pipeline.HighlightCSS(pipeline.DefaultHighlightStyle)
	if err != nil {
		return nil, fmt.Errorf("building highlight stylesheet: %w", err)
	}
	g.stylesheet += "\n" + highlight

	return g, nil
}

// LoadManifest reads, parses and normalizes the manifest of store. A
// manifest without an identifier gets one, saved back to store; read-only
// stores keep working with an identifier that lasts for this run only.
func (g *Generator) LoadManifest(ctx context.Context, store ManifestStore) (*Manifest, error) {
	if store == nil {
		return nil, ErrNilStore
	}

	data, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading manifest: %w", err)
	}
	raw, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	m, err := Normalize(raw, g.now())
	if err != nil {
		return nil, err
	}

	assigned, err := EnsureIdentifier(ctx, store, data, m)
	switch {
	case errors.Is(err, ErrReadOnlyStore):
		g.logger.Warn("manifest is read-only, generated identifier not saved", "uuid", m.UUID)
	case err != nil:
		return nil, err
	case assigned:
		g.logger.Info("saved generated identifier to manifest", "uuid", m.UUID)
	}

	return m, nil
}

// Build fetches and renders every chapter, harvests local resources and
// returns the resolved book. Nothing is written.
func (g *Generator) Build(ctx context.Context, m *Manifest) (*Book, error) {
	if m == nil {
		return nil, ErrNilManifest
	}
	if g.fetcher == nil {
		return nil, ErrNilFetcher
	}
	if len(m.Contents) == 0 {
		return nil, &ValidationError{Field: "contents", Reason: "must name at least one file"}
	}

	manifest := *m
	if manifest.UUID == "" {
		manifest.UUID = uuid.NewString()
		g.logger.Warn("manifest has no identifier, using a temporary one", "uuid", manifest.UUID)
	}

	texts, err := g.fetchAll(ctx, manifest.Contents)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("fetched content", "files", len(texts))

	headings := pipeline.NewHeadingBuilder()
	markdown := make([]string, len(texts))
	for i, text := range texts {
		markdown[i] = headings.Rewrite(i, pipeline.NormalizeMarkdown(string(text)))
	}

	rendered, err := g.renderAll(ctx, manifest.Contents, markdown)
	if err != nil {
		return nil, err
	}

	input := pipeline.HarvestInput{
		Stylesheets: manifest.CSS,
		Cover:       manifest.Cover,
		Chapters:    make([]pipeline.ChapterHTML, len(rendered)),
	}
	for i, html := range rendered {
		input.Chapters[i] = pipeline.ChapterHTML{Path: manifest.Contents[i], HTML: html}
	}
	harvest, err := pipeline.Harvest(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResource, err)
	}

	sources := make([]string, len(harvest.Resources))
	for i, r := range harvest.Resources {
		sources[i] = r.Source
	}
	data, err := g.fetchAll(ctx, sources)
	if err != nil {
		return nil, err
	}
	for i, r := range harvest.Resources {
		r.Data = data[i]
	}
	g.logger.Debug("harvested resources", "resources", len(harvest.Resources))

	book := &Book{
		Manifest:        &manifest,
		Headings:        headings.Headings(),
		Resources:       harvest.Resources,
		Cover:           harvest.Cover,
		StylesheetHrefs: harvest.StylesheetHrefs,
		Stylesheet:      g.stylesheet,
	}
	if harvest.Cover == nil {
		book.RemoteCover = harvest.CoverHref
	}
	for i, html := range harvest.Chapters {
		title := headings.Title(i)
		if title == "" {
			title = "Chapter " + strconv.Itoa(i+1)
		}
		book.Chapters = append(book.Chapters, Chapter{
			Path:  manifest.Contents[i],
			Title: title,
			HTML:  html,
		})
	}

	return book, nil
}

// Generate builds the book described by m and writes it to w as an EPUB
// archive. Nothing is written to w when building fails.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (g *Generator) Generate(ctx context.Context, m *Manifest, w io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	book, err := g.Build(ctx, m)
	if err != nil {
		return err
	}
	return g.Write(ctx, book, w)
}

// Write serializes book and writes the archive to w.
func (g *Generator) Write(ctx context.Context, book *Book, w io.Writer) error {
	entries, err := epub.Serialize(book.toPackage())
	if err != nil {
		return fmt.Errorf("serializing package: %w", err)
	}
	g.logger.Debug("serialized package", "entries", len(entries))

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := archive.Write(w, entries); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}
	return nil
}
