package md2epub

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// fetchAll reads every path through the fetcher with at most
// g.concurrency requests in flight. Results keep the order of paths; the
// first failure cancels the others.
func (g *Generator) fetchAll(ctx context.Context, paths []string) ([][]byte, error) {
	results := make([][]byte, len(paths))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i, p := range paths {
		eg.Go(func() error {
			data, err := g.fetcher.Fetch(ctx, p)
			if err != nil {
				return &FetchError{Path: p, Err: err}
			}
			results[i] = data
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// renderAll renders chapters concurrently. Results keep chapter order.
func (g *Generator) renderAll(ctx context.Context, paths, texts []string) ([]string, error) {
	results := make([]string, len(texts))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for i, text := range texts {
		eg.Go(func() error {
			html, err := g.renderer.Render(ctx, text)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrRender, paths[i], err)
			}
			results[i] = html
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
