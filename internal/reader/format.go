package reader

import (
	"path/filepath"
	"strings"

	"github.com/metcalfc/nrr/internal/charset"
)

// Format defines a file format reader for extracting chapters.
type Format interface {
	Name() string
	Extensions() []string
	Chapters(filename string) ([]Chapter, error)
}

var registry []Format

// Register adds a format reader to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// TextFormat implements Format for plain-text novels of any encoding.
type TextFormat struct{}

func init() {
	Register(&TextFormat{})
}

func (f *TextFormat) Name() string         { return "Text" }
func (f *TextFormat) Extensions() []string { return []string{".txt"} }

func (f *TextFormat) Chapters(filename string) ([]Chapter, error) {
	text, err := charset.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Segment(text), nil
}

// FormatFor returns the registered format for filename, falling back to plain text.
func FormatFor(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f
			}
		}
	}
	return &TextFormat{}
}

// ExtractChapters extracts chapters from a file using its registered format.
func ExtractChapters(filename string) ([]Chapter, error) {
	return FormatFor(filename).Chapters(filename)
}

// ExtractText returns the chapters of a file joined back into one text.
func ExtractText(filename string) (string, error) {
	chapters, err := ExtractChapters(filename)
	if err != nil {
		return "", err
	}
	return JoinChapters(chapters), nil
}

// JoinChapters renders chapters as title and content blocks separated by a
// blank line.
func JoinChapters(chapters []Chapter) string {
	var sb strings.Builder
	for i, ch := range chapters {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(ch.Title)
		if ch.Content != "" {
			sb.WriteString("\n")
			sb.WriteString(ch.Content)
		}
	}
	return sb.String()
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}
