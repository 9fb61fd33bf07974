package md2epub

import (
	"github.com/alnah/go-md2epub/internal/epub"
	"github.com/alnah/go-md2epub/internal/pipeline"
)

// Heading is a node of the book's table of contents.
type Heading = pipeline.Heading

// Resource is a file harvested into the book: a stylesheet, the cover or
// an image.
type Resource = pipeline.Resource

// Chapter is one rendered content file.
type Chapter struct {
	Path  string // Logical path from the manifest
	Title string // First heading, or "Chapter N"
	HTML  string // XHTML body fragment with rewritten references
}

// Book is a fully resolved book, ready to be written.
type Book struct {
	Manifest  *Manifest
	Chapters  []Chapter
	Headings  []*Heading
	Resources []*Resource
	// Cover is nil when the book has no packaged cover.
	Cover *Resource
	// RemoteCover is the cover URL when the cover is not packaged.
	RemoteCover string
	// StylesheetHrefs are linked from chapters after the fixed stylesheet.
	StylesheetHrefs []string
	// Stylesheet is the fixed stylesheet content.
	Stylesheet string
}

// toPackage maps the book onto the serializer's input.
func (b *Book) toPackage() *epub.Package {
	m := b.Manifest

	authors := make([]epub.Author, len(m.Authors))
	for i, a := range m.Authors {
		authors[i] = epub.Author{Name: a.Name, FileAs: a.Sort, Role: a.Role}
	}

	p := &epub.Package{
		Metadata: epub.Metadata{
			Title:       m.Title,
			Subtitle:    m.Subtitle,
			FullTitle:   m.FullTitle,
			SortTitle:   m.SortTitle,
			Language:    m.Language,
			Rights:      m.Rights,
			Publisher:   m.Publisher,
			UUID:        m.UUID,
			ISBN:        m.ISBN,
			DOI:         m.DOI,
			Authors:     authors,
			Byline:      FormatList(m.AuthorNames()),
			Date:        m.Date,
			Created:     m.Created,
			Copyrighted: m.Copyrighted,
		},
		TOC:         m.TOC,
		TOCDepth:    m.TOCDepth,
		Headings:    b.Headings,
		Stylesheets: b.StylesheetHrefs,
		RemoteCover: b.RemoteCover,
		Style:       []byte(b.Stylesheet),
	}
	for _, ch := range b.Chapters {
		p.Chapters = append(p.Chapters, epub.Chapter{Title: ch.Title, Body: ch.HTML})
	}
	for _, r := range b.Resources {
		p.Resources = append(p.Resources, epub.Resource{Href: r.Href, Data: r.Data})
	}
	if b.Cover != nil {
		p.Cover = b.Cover.Href
	}
	return p
}
