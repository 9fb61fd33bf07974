package md2epub

import (
	"errors"
	"fmt"

	"github.com/alnah/go-md2epub/internal/epub"
	"github.com/alnah/go-md2epub/internal/source"
)

// Sentinel errors for library operations.
var (
	ErrInvalidManifest = errors.New("invalid manifest")
	ErrFetch           = errors.New("fetch failed")
	ErrRender          = errors.New("markdown rendering failed")
	ErrNilManifest     = errors.New("manifest cannot be nil")
	ErrNilStore        = errors.New("manifest store cannot be nil")
	ErrNilFetcher      = errors.New("no fetcher configured")
	ErrInvalidResource = errors.New("invalid resource reference")

	// ErrReadOnlyStore is returned by manifest stores that cannot persist
	// a generated identifier.
	ErrReadOnlyStore = source.ErrReadOnly

	// ErrNotFound is wrapped by fetchers for missing files.
	ErrNotFound = source.ErrNotFound

	// ErrSerializationInvariant matches *SerializationInvariantError.
	ErrSerializationInvariant = epub.ErrInvariant
)

// SerializationInvariantError reports a package document referencing an
// item the package manifest does not declare. It indicates a defect, not
// bad input.
type SerializationInvariantError = epub.InvariantError

// ValidationError names the manifest field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidManifest, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidManifest, e.Field, e.Reason)
}

// Unwrap returns ErrInvalidManifest.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidManifest
}

// FetchError reports a content file, stylesheet or image that could not be
// read.
type FetchError struct {
	Path string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrFetch, e.Path, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrFetch.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}
