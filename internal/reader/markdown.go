package reader

import (
	"regexp"
	"strings"

	"github.com/metcalfc/nrr/internal/charset"
)

// MarkdownFormat implements Format for Markdown files.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

// headerRegex matches markdown headers (# to ######)
var headerRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// Chapters starts a new chapter at every header. Text before the first
// header is dropped; a file without headers is one FullTextTitle chapter.
func (f *MarkdownFormat) Chapters(filename string) ([]Chapter, error) {
	text, err := charset.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return segmentMarkdown(text), nil
}

func segmentMarkdown(text string) []Chapter {
	return segmentLines(text, func(line string) (string, bool) {
		match := headerRegex.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if match == nil {
			return "", false
		}
		return strings.TrimSpace(strings.TrimRight(match[2], "#")), true
	})
}
