package epub

import (
	"github.com/alnah/go-md2epub/internal/dateutil"
)

// opfDocument writes the OPF 2.0 package document.
func opfDocument(p *Package, pl *plan) ([]byte, error) {
	m := p.Metadata
	doc := newDocument()

	pkg := doc.CreateElement("package")
	pkg.CreateAttr("xmlns", nsOPF)
	pkg.CreateAttr("unique-identifier", "uuid")
	pkg.CreateAttr("version", "2.0")

	md := pkg.CreateElement("metadata")
	md.CreateAttr("xmlns:dc", nsDC)
	md.CreateAttr("xmlns:opf", nsOPF)

	title := md.CreateElement("dc:title")
	if m.SortTitle != "" {
		title.CreateAttr("opf:file-as", m.SortTitle)
	}
	title.SetText(m.FullTitle)
	md.CreateElement("dc:language").SetText(m.Language)
	if m.Rights != "" {
		md.CreateElement("dc:rights").SetText(m.Rights)
	}
	for _, d := range []struct {
		event string
		value string
	}{
		{"publication", dateutil.FormatDate(m.Date)},
		{"creation", dateutil.FormatDate(m.Created)},
		{"copyright", dateutil.FormatDate(m.Copyrighted)},
	} {
		date := md.CreateElement("dc:date")
		date.CreateAttr("opf:event", d.event)
		date.SetText(d.value)
	}
	if m.Publisher != "" {
		md.CreateElement("dc:publisher").SetText(m.Publisher)
	}
	md.CreateElement("dc:type").SetText("Text")

	id := md.CreateElement("dc:identifier")
	id.CreateAttr("id", "uuid")
	id.CreateAttr("opf:scheme", "UUID")
	id.SetText(m.UUID)
	if m.ISBN != "" {
		isbn := md.CreateElement("dc:identifier")
		isbn.CreateAttr("opf:scheme", "ISBN")
		isbn.SetText(m.ISBN)
	}
	if m.DOI != "" {
		doi := md.CreateElement("dc:identifier")
		doi.CreateAttr("opf:scheme", "DOI")
		doi.SetText(m.DOI)
	}

	for _, a := range m.Authors {
		creator := md.CreateElement("dc:creator")
		creator.CreateAttr("opf:role", a.Role)
		if a.FileAs != "" {
			creator.CreateAttr("opf:file-as", a.FileAs)
		}
		creator.SetText(a.Name)
	}

	if pl.coverID != "" {
		cover := md.CreateElement("meta")
		cover.CreateAttr("name", "cover")
		cover.CreateAttr("content", pl.coverID)
	}

	manifest := pkg.CreateElement("manifest")
	for _, it := range pl.items {
		el := manifest.CreateElement("item")
		el.CreateAttr("id", it.id)
		el.CreateAttr("href", it.href)
		el.CreateAttr("media-type", it.mediaType)
	}

	spine := pkg.CreateElement("spine")
	spine.CreateAttr("toc", "ncx")
	for _, idref := range pl.spine {
		spine.CreateElement("itemref").CreateAttr("idref", idref)
	}

	guide := pkg.CreateElement("guide")
	for _, g := range pl.guide {
		ref := guide.CreateElement("reference")
		ref.CreateAttr("type", g.kind)
		ref.CreateAttr("title", g.title)
		ref.CreateAttr("href", g.href)
	}

	doc.Indent(indentSpaces)
	return doc.WriteToBytes()
}
