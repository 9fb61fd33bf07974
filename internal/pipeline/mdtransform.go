package pipeline

import (
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters.
// They pass through Goldmark unchanged and are turned into <mark> tags
// after conversion.
const (
	MarkStartPlaceholder = "\uE000" // U+E000: Private Use Area start
	MarkEndPlaceholder   = "\uE001" // U+E001: Private Use Area end
)

var (
	crlfOrCR         = regexp.MustCompile(`\r\n?`)
	highlightPattern = regexp.MustCompile(`==([^=\n]+?)==`)
)

// NormalizeMarkdown converts line endings to \n and collapses runs of blank
// lines into one outside fenced code blocks. It runs before heading
// rewriting so line-based scans see uniform input.
func NormalizeMarkdown(content string) string {
	content = strings.TrimPrefix(content, "\ufeff")
	content = crlfOrCR.ReplaceAllString(content, "\n")
	return collapseBlankLines(content)
}

func collapseBlankLines(content string) string {
	if !strings.Contains(content, "\n\n\n") {
		return content
	}

	lines := strings.Split(content, "\n")
	out := lines[:0]
	var code fence
	blank := false
	for i, line := range lines {
		if code.update(line) {
			out = append(out, line)
			blank = false
			continue
		}
		// The last element is what follows the final newline.
		if line == "" && blank && i < len(lines)-1 {
			continue
		}
		blank = line == ""
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// convertHighlights transforms ==text== to placeholder markers outside
// fenced code blocks.
func convertHighlights(content string) string {
	if !strings.Contains(content, "==") {
		return content
	}

	lines := strings.Split(content, "\n")
	var code fence
	for i, line := range lines {
		if code.update(line) {
			continue
		}
		lines[i] = highlightPattern.ReplaceAllString(line, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
	}
	return strings.Join(lines, "\n")
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return strings.ReplaceAll(
		strings.ReplaceAll(content, MarkStartPlaceholder, "<mark>"),
		MarkEndPlaceholder, "</mark>",
	)
}

// fence tracks fenced code blocks during a line-by-line scan.
type fence struct {
	marker byte
	length int
}

// update consumes line and reports whether it belongs to a fenced code
// block, fence lines included.
func (f *fence) update(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return f.marker != 0
	}

	c, n := fenceRun(trimmed)
	if f.marker == 0 {
		if n < 3 {
			return false
		}
		// A backtick fence cannot carry backticks in its info string.
		if c == '`' && strings.ContainsRune(trimmed[n:], '`') {
			return false
		}
		f.marker, f.length = c, n
		return true
	}

	if c == f.marker && n >= f.length && strings.TrimSpace(trimmed[n:]) == "" {
		f.marker, f.length = 0, 0
	}
	return true
}

func fenceRun(s string) (byte, int) {
	if s == "" || (s[0] != '`' && s[0] != '~') {
		return 0, 0
	}
	n := 0
	for n < len(s) && s[n] == s[0] {
		n++
	}
	return s[0], n
}
