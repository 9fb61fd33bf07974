package epub

import (
	"encoding/xml"
	"fmt"

	"github.com/beevik/etree"
)

// Namespaces and document type declarations.
const (
	nsContainer = "urn:oasis:names:tc:opendocument:xmlns:container"
	nsOPF       = "http://www.idpf.org/2007/opf"
	nsDC        = "http://purl.org/dc/elements/1.1/"
	nsNCX       = "http://www.daisy.org/z3986/2005/ncx/"
	nsXHTML     = "http://www.w3.org/1999/xhtml"
	nsOPS       = "http://www.idpf.org/2007/ops"

	xhtmlDoctype = `DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.1//EN" "http://www.w3.org/TR/xhtml11/DTD/xhtml11.dtd"`
	ncxDoctype   = `DOCTYPE ncx PUBLIC "-//NISO//DTD ncx 2005-1//EN" "http://www.daisy.org/z3986/2005/ncx-2005-1.dtd"`

	indentSpaces = 2
)

// newDocument returns a document starting with the UTF-8 XML declaration.
func newDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return doc
}

// newXHTML returns an XHTML 1.1 document with its head filled in, and the
// empty body element.
func newXHTML(title string, stylesheets ...string) (*etree.Document, *etree.Element) {
	doc := newDocument()
	doc.CreateDirective(xhtmlDoctype)

	root := doc.CreateElement("html")
	root.CreateAttr("xmlns", nsXHTML)
	root.CreateAttr("xmlns:epub", nsOPS)

	head := root.CreateElement("head")
	meta := head.CreateElement("meta")
	meta.CreateAttr("http-equiv", "Content-Type")
	meta.CreateAttr("content", "application/xhtml+xml; charset=utf-8")
	head.CreateElement("title").SetText(title)
	for _, href := range stylesheets {
		link := head.CreateElement("link")
		link.CreateAttr("rel", "stylesheet")
		link.CreateAttr("type", "text/css")
		link.CreateAttr("href", href)
	}

	return doc, root.CreateElement("body")
}

func containerDocument() ([]byte, error) {
	doc := newDocument()

	container := doc.CreateElement("container")
	container.CreateAttr("version", "1.0")
	container.CreateAttr("xmlns", nsContainer)

	rootfile := container.CreateElement("rootfiles").CreateElement("rootfile")
	rootfile.CreateAttr("full-path", RootDir+"/"+opfName)
	rootfile.CreateAttr("media-type", "application/oebps-package+xml")

	doc.Indent(indentSpaces)
	return doc.WriteToBytes()
}

// chapterDocument wraps a body fragment. The fragment is parsed only to be
// attached to the tree; it is not indented so preformatted text survives.
func chapterDocument(title, fragment string, stylesheets []string) ([]byte, error) {
	nodes, err := parseBody(fragment)
	if err != nil {
		return nil, err
	}

	links := append([]string{"../" + StylesheetRef}, stylesheets...)
	doc, body := newXHTML(title, links...)
	for _, n := range nodes {
		body.AddChild(n)
	}
	return doc.WriteToBytes()
}

// parseBody reads an XHTML fragment into tokens. HTML named entities are
// accepted and written back as characters.
func parseBody(fragment string) ([]etree.Token, error) {
	frag := etree.NewDocument()
	frag.ReadSettings.Entity = xml.HTMLEntity
	if err := frag.ReadFromString("<body>" + fragment + "</body>"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedChapter, err)
	}
	root := frag.Root()
	if root == nil {
		return nil, nil
	}
	return append([]etree.Token(nil), root.Child...), nil
}
