package md2epub

import (
	"strings"
)

// leadingArticles are moved to the end of sort titles.
var leadingArticles = []string{"the", "a", "an"}

// FormatList joins items as English prose: "A", "A and B", "A, B, and C".
func FormatList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

// SortTitle moves a leading English article to the end: "The Hobbit"
// becomes "Hobbit, The". Other titles are returned unchanged.
func SortTitle(title string) string {
	title = strings.TrimSpace(title)
	first, rest, ok := strings.Cut(title, " ")
	if !ok {
		return title
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return title
	}
	for _, article := range leadingArticles {
		if strings.EqualFold(first, article) {
			return rest + ", " + first
		}
	}
	return title
}

// SortAuthor derives a "Last, First" sort key. Names that are a single word
// or already contain a comma are returned unchanged.
func SortAuthor(name string) string {
	name = strings.TrimSpace(name)
	if strings.Contains(name, ",") {
		return name
	}
	i := strings.LastIndex(name, " ")
	if i < 0 {
		return name
	}
	return name[i+1:] + ", " + strings.TrimSpace(name[:i])
}
