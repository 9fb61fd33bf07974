package md2epub_test

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-md2epub"
	"github.com/alnah/go-md2epub/internal/source"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

// mapFetcher serves files from memory.
type mapFetcher map[string][]byte

func (f mapFetcher) Fetch(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := f[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", md2epub.ErrNotFound, p)
	}
	return data, nil
}

// slowFetcher delays selected paths so fetches complete out of order.
type slowFetcher struct {
	files  mapFetcher
	delays map[string]time.Duration
}

func (f slowFetcher) Fetch(ctx context.Context, p string) ([]byte, error) {
	if d := f.delays[p]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.files.Fetch(ctx, p)
}

// memStore is an in-memory manifest store.
type memStore struct {
	mu       sync.Mutex
	data     []byte
	format   string
	readOnly bool
	saves    int
}

func newMemStore(format, data string) *memStore {
	return &memStore{data: []byte(data), format: format}
}

func (s *memStore) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...), ctx.Err()
}

func (s *memStore) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readOnly {
		return source.ErrReadOnly
	}
	s.data = append([]byte(nil), data...)
	s.saves++
	return nil
}

func (s *memStore) Format() string {
	return s.format
}

func (s *memStore) contents() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.data)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// readEntries returns every archive entry by name, plus the names in order.
func readEntries(t *testing.T, data []byte) (map[string]string, []string) {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip.NewReader() error = %v", err)
	}
	entries := make(map[string]string, len(zr.File))
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("reading %s: %v", f.Name, err)
		}
		entries[f.Name] = string(content)
		names = append(names, f.Name)
	}
	return entries, names
}

func mustNormalize(t *testing.T, raw *md2epub.RawManifest) *md2epub.Manifest {
	t.Helper()
	m, err := md2epub.Normalize(raw, testNow)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	return m
}

func mustGenerator(t *testing.T, opts ...md2epub.Option) *md2epub.Generator {
	t.Helper()
	g, err := md2epub.NewGenerator(append([]md2epub.Option{md2epub.WithClock(fixedClock)}, opts...)...)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	return g
}
