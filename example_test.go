package md2epub_test

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/alnah/go-md2epub"
)

// Example builds a one-chapter book from in-memory files.
func Example() {
	files := mapFetcher{
		"intro.md": []byte("# Hello\n\nThis is a test."),
	}
	gen, err := md2epub.NewGenerator(md2epub.WithFetcher(files))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	m, err := md2epub.Normalize(&md2epub.RawManifest{
		Title:    "Greetings",
		Contents: md2epub.StringList{"intro.md"},
		UUID:     "0b9d0f42-2f1e-4bd5-8f3e-6a1c1d2e3f40",
	}, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	var buf bytes.Buffer
	if err := gen.Generate(context.Background(), m, &buf); err != nil {
		fmt.Println("error:", err)
		return
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(zr.File[0].Name)
	// Output: mimetype
}

// ExampleNormalize shows the defaults applied to a minimal manifest.
func ExampleNormalize() {
	m, err := md2epub.Normalize(&md2epub.RawManifest{
		Title:    "The Hobbit",
		Contents: md2epub.StringList{"ch1.md"},
		Authors:  md2epub.AuthorList{{Name: "J. R. R. Tolkien"}},
		Date:     "1937-9-21",
	}, time.Now())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(m.SortTitle)
	fmt.Println(m.Authors[0].Sort, m.Authors[0].Role)
	fmt.Println(m.Language, m.TOCDepth)
	fmt.Println(m.Date.Format("2006-01-02"))
	// Output:
	// Hobbit, The
	// Tolkien, J. R. R. aut
	// en 6
	// 1937-09-21
}

// ExampleFormatList shows list formatting used for bylines and rights.
func ExampleFormatList() {
	fmt.Println(md2epub.FormatList([]string{"Ada"}))
	fmt.Println(md2epub.FormatList([]string{"Ada", "Charles"}))
	fmt.Println(md2epub.FormatList([]string{"Ada", "Charles", "Mary"}))
	// Output:
	// Ada
	// Ada and Charles
	// Ada, Charles, and Mary
}
