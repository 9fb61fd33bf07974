package epub

import (
	"strconv"

	"github.com/beevik/etree"
)

// ncxDocument writes the NCX 2005-1 navigation control file. Nav points
// are numbered in document order.
func ncxDocument(p *Package, pl *plan) ([]byte, error) {
	doc := newDocument()
	doc.CreateDirective(ncxDoctype)

	ncx := doc.CreateElement("ncx")
	ncx.CreateAttr("xmlns", nsNCX)
	ncx.CreateAttr("version", "2005-1")

	head := ncx.CreateElement("head")
	for _, meta := range [][2]string{
		{"dtb:uid", p.Metadata.UUID},
		{"dtb:depth", strconv.Itoa(pl.depth())},
		{"dtb:totalPageCount", "0"},
		{"dtb:maxPageNumber", "0"},
	} {
		el := head.CreateElement("meta")
		el.CreateAttr("name", meta[0])
		el.CreateAttr("content", meta[1])
	}

	ncx.CreateElement("docTitle").CreateElement("text").SetText(p.Metadata.Title)

	order := 0
	var navPoints func(parent *etree.Element, entries []*navEntry)
	navPoints = func(parent *etree.Element, entries []*navEntry) {
		for _, e := range entries {
			np := parent.CreateElement("navPoint")
			np.CreateAttr("id", "item-"+strconv.Itoa(order))
			np.CreateAttr("playOrder", strconv.Itoa(order+1))
			order++

			np.CreateElement("navLabel").CreateElement("text").SetText(e.label)
			np.CreateElement("content").CreateAttr("src", e.target)
			navPoints(np, e.children)
		}
	}
	navPoints(ncx.CreateElement("navMap"), pl.toc)

	doc.Indent(indentSpaces)
	return doc.WriteToBytes()
}
