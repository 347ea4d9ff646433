package reader

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
)

const ncxMediaType = "application/x-dtbncx+xml"

// toc.ncx, reduced to what chapter titles need.
type ncxDoc struct {
	Points []ncxPoint `xml:"navMap>navPoint"`
}

type ncxPoint struct {
	Label    string     `xml:"navLabel>text"`
	Src      ncxSrc     `xml:"content"`
	Children []ncxPoint `xml:"navPoint"`
}

type ncxSrc struct {
	Path string `xml:"src,attr"`
}

// chapterTitles maps spine hrefs to their table of contents labels. A book
// without a readable NCX yields an empty map.
func chapterTitles(filename string, book *epub.Rootfile) map[string]string {
	data, err := readNCX(filename, book)
	if err != nil {
		return map[string]string{}
	}
	return parseNCXTitles(data)
}

// parseNCXTitles indexes every nav point label under its href, the href
// without fragment, and the bare file name. Earlier entries win.
func parseNCXTitles(data []byte) map[string]string {
	titles := make(map[string]string)

	var doc ncxDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return titles
	}

	var walk func(points []ncxPoint)
	walk = func(points []ncxPoint) {
		for _, p := range points {
			label := strings.TrimSpace(p.Label)
			href := p.Src.Path
			file, _, _ := strings.Cut(href, "#")
			for _, key := range []string{href, file, path.Base(file)} {
				if _, seen := titles[key]; !seen {
					titles[key] = label
				}
			}
			walk(p.Children)
		}
	}
	walk(doc.Points)

	return titles
}

func readNCX(filename string, book *epub.Rootfile) ([]byte, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	name := ncxName(book, zr.File)
	if name == "" {
		return nil, fmt.Errorf("no NCX file found in EPUB")
	}

	for _, f := range zr.File {
		if f.Name == name || strings.HasSuffix(f.Name, "/"+name) || path.Base(f.Name) == path.Base(name) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("NCX file %s not found in archive", name)
}

// ncxName prefers the manifest entry and falls back to any *.ncx member.
func ncxName(book *epub.Rootfile, files []*zip.File) string {
	for _, item := range book.Manifest.Items {
		if item.MediaType == ncxMediaType {
			return item.HREF
		}
	}
	for _, f := range files {
		if strings.EqualFold(path.Ext(f.Name), ".ncx") {
			return f.Name
		}
	}
	return ""
}
