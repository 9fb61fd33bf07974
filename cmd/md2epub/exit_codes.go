package main

import (
	"errors"
	"os"

	md2epub "github.com/alnah/go-md2epub"
	"github.com/alnah/go-md2epub/internal/assets"
	"github.com/alnah/go-md2epub/internal/config"
)

// Exit codes for md2epub CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Book written
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid arguments, config, manifest or style
	ExitIO      = 3 // File not found, permission denied, fetch or write failure
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, md2epub.ErrInvalidManifest) ||
		errors.Is(err, md2epub.ErrInvalidResource) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, md2epub.ErrNotFound) ||
		errors.Is(err, md2epub.ErrFetch) ||
		errors.Is(err, ErrReadStyle) ||
		errors.Is(err, ErrWriteEPUB) {
		return ExitIO
	}

	return ExitGeneral
}
