// Package epub serializes a resolved book into the documents of an EPUB 2
// container.
//
// Layout of the produced entries:
//
//	mimetype
//	META-INF/container.xml
//	OEBPS/content.opf
//	OEBPS/toc.ncx
//	OEBPS/text/_nav.xhtml      (when the table of contents is enabled)
//	OEBPS/text/_title.xhtml
//	OEBPS/text/<i>.xhtml       (one per chapter)
//	OEBPS/resources/<n><ext>   (harvested images, cover, stylesheets)
//	OEBPS/style.css
//
// Serialize is pure: it does no I/O and the same Package always produces
// the same entries.
package epub
