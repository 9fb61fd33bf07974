package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/alnah/go-md2epub/internal/fileutil"
)

// File is a manifest stored on disk. Save rewrites it atomically and keeps
// its permissions.
type File struct {
	path string
}

// NewFile creates a File store for path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the manifest path.
func (f *File) Path() string {
	return f.path
}

// Dir returns the directory holding the manifest.
func (f *File) Dir() string {
	return filepath.Dir(f.path)
}

func (f *File) Load(ctx context.Context) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, f.path)
		}
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return data, nil
}

func (f *File) Save(ctx context.Context, data []byte) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	perm := os.FileMode(0o644)
	if info, err := os.Stat(f.path); err == nil {
		perm = info.Mode().Perm()
	}
	return fileutil.WriteAtomic(f.path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func (f *File) Format() string {
	return FormatForName(f.path)
}

// Reader is a manifest read once from a stream such as standard input.
// It cannot be saved.
type Reader struct {
	r    io.Reader
	once sync.Once
	data []byte
	err  error
}

// NewReader creates a read-only store over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Load reads the whole stream on first call and returns the same bytes
// afterwards.
func (r *Reader) Load(ctx context.Context) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	r.once.Do(func() {
		r.data, r.err = io.ReadAll(io.LimitReader(r.r, MaxFetchSize))
		if r.err != nil {
			r.err = fmt.Errorf("reading manifest: %w", r.err)
		}
	})
	return r.data, r.err
}

func (r *Reader) Save(context.Context, []byte) error {
	return ErrReadOnly
}

// Format sniffs the loaded bytes; call Load first.
func (r *Reader) Format() string {
	return SniffFormat(r.data)
}
