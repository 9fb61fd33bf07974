package epub

import (
	"errors"
	"fmt"
)

// Sentinel errors for package serialization.
var (
	ErrInvariant         = errors.New("epub: package invariant violated")
	ErrMissingIdentifier = errors.New("epub: package identifier is empty")
	ErrNoChapters        = errors.New("epub: package has no chapters")
	ErrInvalidTOCDepth   = errors.New("epub: toc depth must be between 1 and 6")
	ErrMalformedChapter  = errors.New("epub: chapter body is not well-formed")
)

// InvariantError reports a reference from the spine, guide or a navigation
// document to something the package manifest does not declare.
type InvariantError struct {
	Kind   string // spine, guide, cover or ncx
	Target string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("epub: %s reference %q is not declared in the manifest", e.Kind, e.Target)
}

// Is reports whether target is ErrInvariant.
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}
