package epub

import (
	"path"
	"strings"

	"github.com/beevik/etree"
)

// titleDocument writes the title page: cover, title, subtitle and byline.
func titleDocument(p *Package) ([]byte, error) {
	m := p.Metadata
	doc, body := newXHTML("Title Page", "../"+StylesheetRef)
	body.CreateAttr("epub:type", "frontmatter")

	section := body.CreateElement("section")
	section.CreateAttr("class", "titlepage")
	section.CreateAttr("epub:type", "titlepage")

	cover := p.RemoteCover
	if p.Cover != "" {
		cover = "../" + p.Cover
	}
	if cover != "" {
		wrap := section.CreateElement("div")
		wrap.CreateAttr("class", "cover")
		img := wrap.CreateElement("img")
		img.CreateAttr("src", cover)
		img.CreateAttr("alt", "Cover")
	}

	h1 := section.CreateElement("h1")
	span := h1.CreateElement("span")
	span.CreateAttr("epub:type", "title")
	span.SetText(m.Title)
	if m.Subtitle != "" {
		span.SetTail(":")
		h2 := section.CreateElement("h2")
		h2.CreateAttr("epub:type", "subtitle")
		h2.SetText(m.Subtitle)
	}

	if m.Byline != "" {
		byline := section.CreateElement("p")
		byline.CreateAttr("class", "author")
		byline.SetText(m.Byline)
	}

	doc.Indent(indentSpaces)
	return doc.WriteToBytes()
}

// navDocument writes the HTML navigation document with the table of
// contents and a landmarks list. Targets are relative to the text
// directory.
func navDocument(p *Package, pl *plan) ([]byte, error) {
	doc, body := newXHTML("Contents", "../"+StylesheetRef)
	body.CreateAttr("epub:type", "frontmatter")

	toc := body.CreateElement("nav")
	toc.CreateAttr("epub:type", "toc")
	toc.CreateAttr("id", "toc")
	toc.CreateElement("h1").SetText("Contents")

	var list func(parent *etree.Element, entries []*navEntry)
	list = func(parent *etree.Element, entries []*navEntry) {
		if len(entries) == 0 {
			return
		}
		ol := parent.CreateElement("ol")
		for _, e := range entries {
			li := ol.CreateElement("li")
			a := li.CreateElement("a")
			a.CreateAttr("href", textRelative(e.target))
			a.SetText(e.label)
			list(li, e.children)
		}
	}
	list(toc, pl.toc)

	landmarks := body.CreateElement("nav")
	landmarks.CreateAttr("epub:type", "landmarks")
	landmarks.CreateAttr("id", "landmarks")
	landmarks.CreateAttr("class", "landmarks")
	ol := landmarks.CreateElement("ol")
	for _, g := range pl.guide {
		a := ol.CreateElement("li").CreateElement("a")
		a.CreateAttr("epub:type", landmarkType(g.kind))
		a.CreateAttr("href", textRelative(g.href))
		a.SetText(g.title)
	}

	doc.Indent(indentSpaces)
	return doc.WriteToBytes()
}

// textRelative turns a package-root-relative target into one relative to
// the text directory, where every XHTML document lives.
func textRelative(target string) string {
	if rel, ok := strings.CutPrefix(target, TextDir+"/"); ok {
		return rel
	}
	return path.Join("..", target)
}

// landmarkType maps guide reference types to structural semantics.
func landmarkType(kind string) string {
	switch kind {
	case "title-page":
		return "titlepage"
	case "text":
		return "bodymatter"
	default:
		return kind
	}
}
