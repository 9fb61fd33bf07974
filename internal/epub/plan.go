package epub

import (
	"strconv"
	"strings"

	"github.com/alnah/go-md2epub/internal/pipeline"
)

// item is one entry of the package manifest.
type item struct {
	id        string
	href      string
	mediaType string
}

// guideRef is one entry of the package guide.
type guideRef struct {
	kind  string
	title string
	href  string
}

// navEntry is one rendered entry of the table of contents.
type navEntry struct {
	label    string
	target   string // Package-root-relative, may carry a fragment
	children []*navEntry
}

// plan lists every identifier and reference of the package before any
// document is written, so consistency is checked in one place.
type plan struct {
	items   []item
	spine   []string
	guide   []guideRef
	coverID string
	toc     []*navEntry // Title page entry first
}

func newPlan(p *Package) *plan {
	pl := &plan{}

	pl.items = append(pl.items,
		item{id: "ncx", href: ncxName, mediaType: MediaType(ncxName)},
		item{id: "title", href: titleName, mediaType: MediaType(titleName)},
	)
	if p.TOC {
		pl.items = append(pl.items, item{id: "nav", href: navName, mediaType: MediaType(navName)})
	}
	pl.items = append(pl.items, item{id: "style", href: StylesheetRef, mediaType: MediaType(StylesheetRef)})
	for i := range p.Chapters {
		href := chapterHref(i)
		pl.items = append(pl.items, item{id: chapterID(i), href: href, mediaType: MediaType(href)})
	}
	for i, r := range p.Resources {
		id := "resource-" + strconv.Itoa(i)
		pl.items = append(pl.items, item{id: id, href: r.Href, mediaType: MediaType(r.Href)})
		if p.Cover != "" && r.Href == p.Cover {
			pl.coverID = id
		}
	}

	pl.spine = append(pl.spine, "title")
	if p.TOC {
		pl.spine = append(pl.spine, "nav")
	}
	for i := range p.Chapters {
		pl.spine = append(pl.spine, chapterID(i))
	}

	pl.guide = append(pl.guide, guideRef{kind: "title-page", title: "Title Page", href: titleName})
	if p.TOC {
		pl.guide = append(pl.guide, guideRef{kind: "toc", title: "Table of Contents", href: navName})
	}
	pl.guide = append(pl.guide, guideRef{kind: "text", title: "Begin Reading", href: chapterHref(0)})

	pl.toc = append([]*navEntry{{label: p.Metadata.Title, target: titleName}},
		navEntries(p.Headings, p.TOCDepth)...)

	return pl
}

// navEntries flattens empty headings into their parent list and drops
// headings deeper than depth along with their subtrees.
func navEntries(headings []*pipeline.Heading, depth int) []*navEntry {
	var out []*navEntry
	for _, h := range headings {
		if h.Level > depth {
			continue
		}
		if h.Empty {
			out = append(out, navEntries(h.Children, depth)...)
			continue
		}
		label := h.Text()
		if label == "" {
			label = h.ID
		}
		out = append(out, &navEntry{
			label:    label,
			target:   chapterHref(h.Chapter) + "#" + h.ID,
			children: navEntries(h.Children, depth),
		})
	}
	return out
}

// verify checks that the spine, guide and navigation targets only name
// declared manifest items.
func (pl *plan) verify() error {
	ids := make(map[string]bool, len(pl.items))
	hrefs := make(map[string]bool, len(pl.items))
	for _, it := range pl.items {
		ids[it.id] = true
		hrefs[it.href] = true
	}

	for _, id := range pl.spine {
		if !ids[id] {
			return &InvariantError{Kind: "spine", Target: id}
		}
	}
	for _, g := range pl.guide {
		if !hrefs[g.href] {
			return &InvariantError{Kind: "guide", Target: g.href}
		}
	}
	if pl.coverID != "" && !ids[pl.coverID] {
		return &InvariantError{Kind: "cover", Target: pl.coverID}
	}

	var walk func(entries []*navEntry) error
	walk = func(entries []*navEntry) error {
		for _, e := range entries {
			if !hrefs[stripFragment(e.target)] {
				return &InvariantError{Kind: "ncx", Target: e.target}
			}
			if err := walk(e.children); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(pl.toc)
}

// depth returns the nesting depth of the table of contents.
func (pl *plan) depth() int {
	var measure func(entries []*navEntry) int
	measure = func(entries []*navEntry) int {
		deepest := 0
		for _, e := range entries {
			if d := 1 + measure(e.children); d > deepest {
				deepest = d
			}
		}
		return deepest
	}
	return measure(pl.toc)
}

func chapterID(i int) string {
	return "chapter-" + strconv.Itoa(i)
}

func stripFragment(href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		return href[:i]
	}
	return href
}
