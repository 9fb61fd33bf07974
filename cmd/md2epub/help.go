package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2epub [flags] <manifest|-> [output|-]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build an EPUB book from a JSON or YAML manifest and markdown chapters.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  manifest  Manifest file, or - to read it from stdin")
	fmt.Fprintln(w, "  output    EPUB file, or - to write to stdout")
	fmt.Fprintln(w, "            (default: <title>.epub next to the manifest)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Sources:")
	fmt.Fprintln(w, "      --remote <url>        Fetch book files from a base URL")
	fmt.Fprintln(w, "  -j, --concurrency <n>     Parallel fetches (0 = default)")
	fmt.Fprintln(w, "      --timeout <d>         Per-request timeout for --remote")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <name|path>   Style name (default, plain) or CSS file")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory of custom styles")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "General:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w, "      --version             Show version information")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2EPUB_CONFIG, MD2EPUB_STYLE, MD2EPUB_ASSET_PATH, MD2EPUB_REMOTE,")
	fmt.Fprintln(w, "  MD2EPUB_OUTPUT_DIR, MD2EPUB_CONCURRENCY, MD2EPUB_TIMEOUT")
}
