package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alnah/go-md2epub/internal/fileutil"
)

// Dir fetches files from a directory on disk, usually the one holding the
// manifest. Paths resolving outside the directory are rejected.
type Dir struct {
	root string
}

// NewDir creates a Dir rooted at root.
func NewDir(root string) (*Dir, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", root, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("opening source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening source directory: %s is not a directory", abs)
	}
	return &Dir{root: abs}, nil
}

// Root returns the absolute directory files are read from.
func (d *Dir) Root() string {
	return d.root
}

// Fetch reads the file at the logical path p.
func (d *Dir) Fetch(ctx context.Context, p string) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	logical, err := cleanLogical(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, p)
	}
	full := filepath.Join(d.root, filepath.FromSlash(logical))
	if err := fileutil.ContainedPath(d.root, full); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPath, p, err)
	}

	f, err := os.Open(full) // #nosec G304 -- path contained above
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, err
	}
	defer f.Close()

	return readLimited(f, p)
}

func readLimited(r io.Reader, p string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFetchSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	if int64(len(data)) > MaxFetchSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, p, MaxFetchSize)
	}
	return data, nil
}
