// Package archive writes EPUB zip containers.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"time"
)

// Sentinel errors for archive writing.
var (
	ErrEmptyName     = errors.New("archive: entry name cannot be empty")
	ErrDuplicateName = errors.New("archive: duplicate entry name")
	ErrClosed        = errors.New("archive: writer is closed")
)

// epoch is the modification time stamped on every entry so identical books
// produce identical archives.
var epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Entry is one file of the container.
type Entry struct {
	Name   string
	Data   []byte
	Stored bool // Written without compression, as the mimetype entry must be
}

// Writer appends entries to a zip stream in the order they are added.
type Writer struct {
	zw     *zip.Writer
	names  map[string]bool
	closed bool
}

// NewWriter returns a Writer producing a zip archive on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		zw:    zip.NewWriter(w),
		names: make(map[string]bool),
	}
}

// Add writes one entry.
func (w *Writer) Add(e Entry) error {
	if w.closed {
		return ErrClosed
	}
	if e.Name == "" {
		return ErrEmptyName
	}
	if w.names[e.Name] {
		return fmt.Errorf("%w: %s", ErrDuplicateName, e.Name)
	}

	header := &zip.FileHeader{
		Name:     e.Name,
		Method:   zip.Deflate,
		Modified: epoch,
	}
	if e.Stored {
		header.Method = zip.Store
	}

	fw, err := w.zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("archive: creating %s: %w", e.Name, err)
	}
	if _, err := fw.Write(e.Data); err != nil {
		return fmt.Errorf("archive: writing %s: %w", e.Name, err)
	}
	w.names[e.Name] = true
	return nil
}

// Close writes the central directory. It does not close the underlying
// writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.zw.Close(); err != nil {
		return fmt.Errorf("archive: finalizing: %w", err)
	}
	return nil
}

// Write adds every entry to a new archive on w and finalizes it.
func Write(w io.Writer, entries []Entry) error {
	aw := NewWriter(w)
	for _, e := range entries {
		if err := aw.Add(e); err != nil {
			return err
		}
	}
	return aw.Close()
}
