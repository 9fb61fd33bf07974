package pipeline

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ResourceDir is the package-root-relative directory holding harvested files.
const ResourceDir = "resources"

// contentToRoot prefixes resource hrefs used from content documents, which
// live one directory below the package root.
const contentToRoot = "../"

var schemePrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:`)

// ResourceKind tells what a harvested file is used for.
type ResourceKind int

const (
	KindStylesheet ResourceKind = iota
	KindCover
	KindImage
)

func (k ResourceKind) String() string {
	switch k {
	case KindStylesheet:
		return "stylesheet"
	case KindCover:
		return "cover"
	case KindImage:
		return "image"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Resource is a file copied into the package.
type Resource struct {
	Index  int
	Source string // Logical path in the book source
	Href   string // Package-root-relative path, resources/<index><ext>
	Kind   ResourceKind
	Data   []byte // Filled in once fetched
}

// ChapterHTML is a rendered chapter and the logical path it came from.
type ChapterHTML struct {
	Path string
	HTML string
}

// HarvestInput lists every reference that may point at a local file.
type HarvestInput struct {
	Stylesheets []string
	Cover       string
	Chapters    []ChapterHTML
}

// HarvestResult holds the assigned resources and rewritten references.
type HarvestResult struct {
	// Resources in assignment order; Resources[i].Index == i.
	Resources []*Resource
	// Chapters holds the rewritten chapter fragments, in input order.
	Chapters []string
	// StylesheetHrefs are chapter-relative hrefs, in manifest order.
	// Remote stylesheets keep their URL.
	StylesheetHrefs []string
	// Cover is nil when the book has no local cover.
	Cover *Resource
	// CoverHref is the chapter-relative cover reference, or "".
	CoverHref string
}

// Harvest assigns every local stylesheet, the cover and every local chapter
// image an in-package path and rewrites references to it. Assignment order
// is stylesheets, then cover, then images in chapter and document order.
// Stylesheets and cover resolve against the book root, images against their
// chapter's directory. A source referenced twice shares one resource.
func Harvest(in HarvestInput) (*HarvestResult, error) {
	h := &harvester{bySource: make(map[string]*Resource)}
	res := &HarvestResult{}

	for _, ref := range in.Stylesheets {
		if !IsLocalRef(ref) {
			res.StylesheetHrefs = append(res.StylesheetHrefs, ref)
			continue
		}
		r, err := h.add(resolveRef("", ref), KindStylesheet)
		if err != nil {
			return nil, err
		}
		res.StylesheetHrefs = append(res.StylesheetHrefs, contentToRoot+r.Href)
	}

	if in.Cover != "" {
		if IsLocalRef(in.Cover) {
			r, err := h.add(resolveRef("", in.Cover), KindCover)
			if err != nil {
				return nil, err
			}
			res.Cover = r
			res.CoverHref = contentToRoot + r.Href
		} else {
			res.CoverHref = in.Cover
		}
	}

	res.Chapters = make([]string, len(in.Chapters))
	for i, ch := range in.Chapters {
		rewritten, err := h.rewriteImages(ch)
		if err != nil {
			return nil, fmt.Errorf("chapter %s: %w", ch.Path, err)
		}
		res.Chapters[i] = rewritten
	}

	res.Resources = h.resources
	return res, nil
}

// IsLocalRef reports whether ref names a file inside the book rather than a
// URI, a protocol-relative URL or an in-document fragment.
func IsLocalRef(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	return !schemePrefix.MatchString(ref)
}

type harvester struct {
	resources []*Resource
	bySource  map[string]*Resource
}

func (h *harvester) add(source string, kind ResourceKind) (*Resource, error) {
	if source == "" || source == "." || strings.HasPrefix(source, "../") || source == ".." {
		return nil, fmt.Errorf("resource %q resolves outside the book", source)
	}
	if r, ok := h.bySource[source]; ok {
		return r, nil
	}

	index := len(h.resources)
	r := &Resource{
		Index:  index,
		Source: source,
		Href:   ResourceDir + "/" + strconv.Itoa(index) + path.Ext(source),
		Kind:   kind,
	}
	h.resources = append(h.resources, r)
	h.bySource[source] = r
	return r, nil
}

// rewriteImages harvests local img sources of one chapter. The fragment is
// always re-serialized so named entities from the renderer come out as
// characters, which XML readers accept without a DTD.
func (h *harvester) rewriteImages(ch ChapterHTML) (string, error) {
	doc, err := parseFragment(ch.HTML)
	if err != nil {
		return "", err
	}

	var walkErr error
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if walkErr != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			for i, attr := range n.Attr {
				if attr.Key != "src" || !IsLocalRef(attr.Val) {
					continue
				}
				r, err := h.add(resolveRef(path.Dir(ch.Path), attr.Val), KindImage)
				if err != nil {
					walkErr = err
					return
				}
				n.Attr[i].Val = contentToRoot + r.Href
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if walkErr != nil {
		return "", walkErr
	}

	return renderFragment(doc)
}

// resolveRef turns a local reference into a logical path. Query and
// fragment are dropped, percent-escapes decoded, and a leading slash means
// the book root.
func resolveRef(dir, ref string) string {
	ref = strings.TrimSpace(ref)
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if unescaped, err := url.PathUnescape(ref); err == nil {
		ref = unescaped
	}
	ref = strings.ReplaceAll(ref, "\\", "/")
	if strings.HasPrefix(ref, "/") {
		return path.Clean(strings.TrimLeft(ref, "/"))
	}
	return path.Join(dir, ref)
}

// parseFragment parses chapter HTML in body context so no html/body
// wrapper is added, and gathers the nodes under one container.
func parseFragment(content string) (*html.Node, error) {
	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, fmt.Errorf("parsing chapter HTML: %w", err)
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

// rawTextElements have their text written unescaped by html.Render.
var rawTextElements = map[atom.Atom]bool{
	atom.Iframe:    true,
	atom.Noembed:   true,
	atom.Noframes:  true,
	atom.Noscript:  true,
	atom.Plaintext: true,
	atom.Script:    true,
	atom.Style:     true,
	atom.Xmp:       true,
}

// wrapRawText puts the text of raw-text elements into CDATA sections so
// characters such as & and < survive as XML character data.
func wrapRawText(n *html.Node) {
	if n.Type == html.ElementNode && rawTextElements[n.DataAtom] {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode && c.Data != "" {
				c.Data = "<![CDATA[" + strings.ReplaceAll(c.Data, "]]>", "]]]]><![CDATA[>") + "]]>"
			}
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		wrapRawText(c)
	}
}

// renderFragment renders the container's children. Void elements come out
// self-closed and raw text is wrapped, which keeps the result well-formed
// XHTML.
func renderFragment(doc *html.Node) (string, error) {
	wrapRawText(doc)

	var buf strings.Builder
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("rendering chapter HTML: %w", err)
		}
	}
	return buf.String(), nil
}
