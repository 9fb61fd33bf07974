// Package md2epub builds EPUB books from a manifest and markdown chapters.
//
// # Quick Start
//
// Load a manifest, then generate the book:
//
//	dir, err := source.NewDir("book")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gen, err := md2epub.NewGenerator(md2epub.WithFetcher(dir))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m, err := gen.LoadManifest(ctx, source.NewFile("book/book.json"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	f, _ := os.Create("book.epub")
//	defer f.Close()
//	if err := gen.Generate(ctx, m, f); err != nil {
//	    log.Fatal(err)
//	}
//
// # Manifest
//
// A manifest is a JSON or YAML object:
//
//	{
//	  "title": "The Book",
//	  "subtitle": "A Novel",
//	  "authors": ["Ada Lovelace", {"name": "Charles Babbage", "role": "edt"}],
//	  "contents": ["01-intro.md", "02-engine.md"],
//	  "css": "extra.css",
//	  "cover": "images/cover.jpg",
//	  "date": "2020-3-5",
//	  "tocDepth": 2
//	}
//
// Missing fields get defaults: the title is "Untitled", the language "en",
// dates default to the publication date, which defaults to now, and rights
// are derived from the authors. A manifest without a uuid gets one, written
// back to the manifest so later builds keep the same identifier.
//
// # Generation Pipeline
//
//  1. Manifest normalization (defaults, validation, identifier)
//  2. Concurrent chapter fetching through a Fetcher
//  3. Heading tree construction and heading identifiers
//  4. Markdown rendering via Goldmark (GFM, smart punctuation, highlighting)
//  5. Resource harvesting (stylesheets, cover, images)
//  6. Package serialization (OPF, NCX, navigation, title page, chapters)
//  7. Zip archive writing
//
// # Sources
//
// Chapters and resources are read through a Fetcher. The internal/source
// package provides a local directory and a remote HTTP object store; any
// type with a Fetch method works.
//
// # Errors
//
// Invalid manifests return a *ValidationError (matches ErrInvalidManifest),
// unreadable files a *FetchError (matches ErrFetch). Both are reported
// before anything is written.
package md2epub
