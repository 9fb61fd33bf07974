package epub

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alnah/go-md2epub/internal/archive"
	"github.com/alnah/go-md2epub/internal/pipeline"
)

// Container layout.
const (
	RootDir       = "OEBPS"
	TextDir       = "text"
	MimeType      = "application/epub+zip"
	StylesheetRef = "style.css"
	MaxTOCDepth   = 6
)

const (
	opfName   = "content.opf"
	ncxName   = "toc.ncx"
	navName   = TextDir + "/_nav.xhtml"
	titleName = TextDir + "/_title.xhtml"
)

// Author is a creator of the book.
type Author struct {
	Name   string
	FileAs string // Sort key, e.g. "Tolkien, J. R. R."
	Role   string // MARC relator code, e.g. "aut"
}

// Metadata is the bibliographic record written to the package document.
type Metadata struct {
	Title       string // Title alone, used for the title page and NCX
	Subtitle    string
	FullTitle   string // Title with subtitle, used for dc:title
	SortTitle   string
	Language    string
	Rights      string
	Publisher   string
	UUID        string
	ISBN        string
	DOI         string
	Authors     []Author
	Byline      string // Formatted author names for the title page
	Date        time.Time
	Created     time.Time
	Copyrighted time.Time
}

// Chapter is one content document.
type Chapter struct {
	Title string // Used as the document title; "Chapter N" when empty
	Body  string // XHTML body fragment, copied into the document as is
}

// Resource is a file stored under the package root.
type Resource struct {
	Href string // Package-root-relative, e.g. resources/0.png
	Data []byte
}

// Package is everything needed to write one book.
type Package struct {
	Metadata Metadata

	// TOC enables the HTML navigation document.
	TOC bool
	// TOCDepth limits the heading levels listed in navigation documents.
	TOCDepth int
	// Headings is the book-wide heading tree.
	Headings []*pipeline.Heading

	Chapters []Chapter
	// Stylesheets are linked from every chapter after the fixed stylesheet,
	// as chapter-relative hrefs or absolute URLs.
	Stylesheets []string
	Resources   []Resource
	// Cover is the Href of the cover resource, or "".
	Cover string
	// RemoteCover is an absolute cover URL shown on the title page when the
	// cover is not packaged.
	RemoteCover string
	// Style is the content of the fixed stylesheet.
	Style []byte
}

// Validate checks the fields Serialize cannot default.
func (p *Package) Validate() error {
	if p.Metadata.UUID == "" {
		return ErrMissingIdentifier
	}
	if len(p.Chapters) == 0 {
		return ErrNoChapters
	}
	if p.TOCDepth < 1 || p.TOCDepth > MaxTOCDepth {
		return fmt.Errorf("%w: got %d", ErrInvalidTOCDepth, p.TOCDepth)
	}
	return nil
}

// Serialize renders the package into archive entries, in container order.
// A reference to an undeclared manifest item yields an *InvariantError.
func Serialize(p *Package) ([]archive.Entry, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	pl := newPlan(p)
	if err := pl.verify(); err != nil {
		return nil, err
	}

	entries := []archive.Entry{
		{Name: "mimetype", Data: []byte(MimeType), Stored: true},
	}
	add := func(name string, doc documentFunc) error {
		data, err := doc()
		if err != nil {
			return fmt.Errorf("epub: writing %s: %w", name, err)
		}
		entries = append(entries, archive.Entry{Name: name, Data: data})
		return nil
	}

	if err := add("META-INF/container.xml", containerDocument); err != nil {
		return nil, err
	}
	if err := add(RootDir+"/"+opfName, func() ([]byte, error) { return opfDocument(p, pl) }); err != nil {
		return nil, err
	}
	if err := add(RootDir+"/"+ncxName, func() ([]byte, error) { return ncxDocument(p, pl) }); err != nil {
		return nil, err
	}
	if p.TOC {
		if err := add(RootDir+"/"+navName, func() ([]byte, error) { return navDocument(p, pl) }); err != nil {
			return nil, err
		}
	}
	if err := add(RootDir+"/"+titleName, func() ([]byte, error) { return titleDocument(p) }); err != nil {
		return nil, err
	}
	for i, ch := range p.Chapters {
		title := ch.Title
		if title == "" {
			title = "Chapter " + strconv.Itoa(i+1)
		}
		body := ch.Body
		if err := add(RootDir+"/"+chapterHref(i), func() ([]byte, error) {
			return chapterDocument(title, body, p.Stylesheets)
		}); err != nil {
			return nil, err
		}
	}
	for _, r := range p.Resources {
		entries = append(entries, archive.Entry{Name: RootDir + "/" + r.Href, Data: r.Data})
	}
	entries = append(entries, archive.Entry{Name: RootDir + "/" + StylesheetRef, Data: p.Style})

	return entries, nil
}

type documentFunc func() ([]byte, error)

// chapterHref is the package-root-relative path of chapter i.
func chapterHref(i int) string {
	return TextDir + "/" + strconv.Itoa(i) + ".xhtml"
}
