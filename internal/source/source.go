// Package source provides the transports a book is read from: manifest
// stores (a file on disk or standard input) and content fetchers (a local
// directory or a remote HTTP object store).
//
// Fetchers take logical, slash-separated paths relative to the book root.
package source

import (
	"bytes"
	"errors"
	"path"
	"strings"
)

// Sentinel errors for source operations.
var (
	// ErrNotFound indicates the logical path does not exist in the source.
	ErrNotFound = errors.New("not found")

	// ErrReadOnly indicates a manifest store that cannot persist changes.
	ErrReadOnly = errors.New("manifest source is read-only")

	// ErrInvalidPath indicates an empty, absolute or escaping logical path.
	ErrInvalidPath = errors.New("invalid source path")

	// ErrTooLarge indicates a fetched file exceeds MaxFetchSize.
	ErrTooLarge = errors.New("source file too large")
)

// MaxFetchSize bounds a single fetched file (64MB).
var MaxFetchSize int64 = 64 << 20

// Manifest formats reported by stores.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatForName returns the manifest format implied by a file name:
// ".yaml" and ".yml" are YAML, everything else is JSON.
func FormatForName(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// SniffFormat returns JSON when the first non-space byte of data opens an
// object, YAML otherwise.
func SniffFormat(data []byte) string {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

// cleanLogical validates a logical path and returns it cleaned.
func cleanLogical(p string) (string, error) {
	if p == "" || strings.ContainsRune(p, 0) {
		return "", ErrInvalidPath
	}
	p = strings.ReplaceAll(p, "\\", "/")
	if path.IsAbs(p) {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}
