package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"golang.org/x/net/html"
)

var (
	headingLine   = regexp.MustCompile(`^(#{1,6})(.+)$`)
	closingHashes = regexp.MustCompile(`\s+#+$`)
)

// fallbackID is used when a heading title has no sluggable characters.
const fallbackID = "section"

// Heading is a node of the book-wide table of contents.
//
// Empty nodes are inserted when a heading skips levels. They have no title
// or ID and are not rendered as entries, but their children are.
type Heading struct {
	Title    string // Heading text as written, may contain inline HTML
	Level    int
	Chapter  int // Index of the chapter holding the heading
	ID       string
	Empty    bool
	Children []*Heading
}

// Text returns the title with markup removed and entities decoded.
func (h *Heading) Text() string {
	return plainText(h.Title)
}

// HeadingBuilder folds chapters, in order, into a single heading tree.
//
// The stack holds one insertion list per open level; stack[0] is the root
// list. It carries over between chapters, so a chapter starting with ##
// nests under the previous chapter's last # heading.
type HeadingBuilder struct {
	roots  []*Heading
	stack  []*[]*Heading
	titles map[int]string
}

// NewHeadingBuilder returns a builder with an empty tree.
func NewHeadingBuilder() *HeadingBuilder {
	b := &HeadingBuilder{titles: make(map[int]string)}
	b.stack = []*[]*Heading{&b.roots}
	return b
}

// Rewrite replaces each ATX heading line of a chapter with an identified
// HTML heading and adds the heading to the tree. Lines inside fenced code
// blocks are left alone. IDs are unique within the chapter: repeated slugs
// get -2, -3 and so on.
func (b *HeadingBuilder) Rewrite(chapter int, text string) string {
	lines := strings.Split(text, "\n")
	ids := make(idSet)

	var code fence
	for i, line := range lines {
		if code.update(line) {
			continue
		}
		m := headingLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := headingTitle(m[2])
		if title == "" {
			continue
		}

		level := len(m[1])
		node := &Heading{
			Title:   title,
			Level:   level,
			Chapter: chapter,
			ID:      ids.next(title),
		}
		b.push(node)

		if _, ok := b.titles[chapter]; !ok {
			b.titles[chapter] = node.Text()
		}
		// The tag opens an HTML block, which only a blank line closes.
		lines[i] = fmt.Sprintf("<h%d id=\"%s\">%s</h%d>\n", level, node.ID, title, level)
	}

	return strings.Join(lines, "\n")
}

// Headings returns the root list of the tree built so far.
func (b *HeadingBuilder) Headings() []*Heading {
	return b.roots
}

// Title returns the plain text of the first heading in chapter, or "" when
// the chapter has none.
func (b *HeadingBuilder) Title(chapter int) string {
	return b.titles[chapter]
}

// push inserts node at its level, opening empty nodes for skipped levels
// and closing deeper ones.
func (b *HeadingBuilder) push(node *Heading) {
	for len(b.stack) < node.Level {
		empty := &Heading{Empty: true, Level: len(b.stack), Chapter: node.Chapter}
		b.appendTop(empty)
		b.stack = append(b.stack, &empty.Children)
	}
	b.stack = b.stack[:node.Level]
	b.appendTop(node)
	b.stack = append(b.stack, &node.Children)
}

func (b *HeadingBuilder) appendTop(h *Heading) {
	top := b.stack[len(b.stack)-1]
	*top = append(*top, h)
}

func headingTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = closingHashes.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

type idSet map[string]bool

func (s idSet) next(title string) string {
	base := slug.Make(plainText(title))
	if base == "" {
		base = fallbackID
	}
	id := base
	for n := 2; s[id]; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	s[id] = true
	return id
}

// plainText extracts the text content of an HTML fragment.
func plainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return fragment
	}

	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(sb.String())
		case html.TextToken:
			sb.Write(z.Text())
		}
	}
}
