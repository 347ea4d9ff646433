package reader

import (
	"strings"
	"unicode"
)

// Chapter is one titled section of a novel.
type Chapter struct {
	Title   string
	Content string
}

// TOCEntry represents a single entry in a table of contents
type TOCEntry struct {
	Title   string
	Preview string
	Index   int
}

// FullTextTitle is the title of the single chapter produced when no chapter
// headings are found in non-blank text.
const FullTextTitle = "Full Text"

const previewRunes = 40

// BuildTOC returns one entry per chapter with a short content preview.
func BuildTOC(chapters []Chapter) []TOCEntry {
	entries := make([]TOCEntry, 0, len(chapters))
	for i, ch := range chapters {
		entries = append(entries, TOCEntry{
			Title:   ch.Title,
			Preview: preview(ch.Content),
			Index:   i,
		})
	}
	return entries
}

func preview(content string) string {
	flat := strings.Join(strings.Fields(content), " ")
	runes := []rune(flat)
	if len(runes) <= previewRunes {
		return flat
	}
	return string(runes[:previewRunes]) + "..."
}

// isSpace also treats the byte order mark as whitespace; it shows up at the
// start of files saved by some Windows editors.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}
