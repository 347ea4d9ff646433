package reader

import (
	"regexp"
	"strings"
)

// spaceClass is the regexp form of isSpace: unicode.IsSpace plus the BOM.
const spaceClass = `\s\v\x{85}\p{Z}\x{FEFF}`

// chapterTitleRegex matches "第<numerals>章..." and "Chapter <digits>..." lines.
// Numerals are the Chinese digits and magnitudes, ASCII digits and spaces.
var chapterTitleRegex = regexp.MustCompile(
	`^[` + spaceClass + `]*(?:第[零一二三四五六七八九十百千万0-9` + spaceClass + `]+章|Chapter[` + spaceClass + `]+[0-9]+)`,
)

// IsChapterTitle reports whether line introduces a new chapter.
func IsChapterTitle(line string) bool {
	return chapterTitleRegex.MatchString(line)
}

// Segment splits text into chapters at lines recognised by IsChapterTitle.
//
// Lines before the first title are dropped. Text with no titles at all
// becomes a single FullTextTitle chapter, and blank text yields no chapters.
func Segment(text string) []Chapter {
	return segmentLines(text, func(line string) (string, bool) {
		if !IsChapterTitle(line) {
			return "", false
		}
		return trimSpace(line), true
	})
}

// segmentLines partitions text with match deciding which lines are titles.
func segmentLines(text string, match func(line string) (string, bool)) []Chapter {
	if trimSpace(text) == "" {
		return nil
	}

	var (
		chapters  []Chapter
		title     string
		inChapter bool
		body      []string
	)
	for _, line := range strings.Split(text, "\n") {
		if t, ok := match(line); ok {
			if inChapter {
				chapters = append(chapters, newChapter(title, body))
			}
			title, inChapter, body = t, true, nil
			continue
		}
		if inChapter {
			body = append(body, line)
		}
	}
	if inChapter {
		chapters = append(chapters, newChapter(title, body))
	}

	if len(chapters) == 0 {
		return []Chapter{{Title: FullTextTitle, Content: trimSpace(text)}}
	}
	return chapters
}

func newChapter(title string, body []string) Chapter {
	return Chapter{Title: title, Content: trimSpace(strings.Join(body, "\n"))}
}
