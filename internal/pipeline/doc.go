// Package pipeline implements the content stages of book generation.
//
// Chapters flow through these stages in manifest order:
//   - Markdown preprocessing (line normalization, ==highlight== syntax)
//   - Heading rewriting, which also builds the book-wide heading tree
//   - Markdown to XHTML conversion via Goldmark
//   - Resource harvesting: stylesheets, cover and local images get stable
//     in-package paths and references are rewritten to point at them
//
// Packaging into EPUB documents is handled by internal/epub. This package
// never touches the network or the filesystem.
package pipeline
