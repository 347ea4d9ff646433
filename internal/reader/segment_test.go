package reader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentEmpty(t *testing.T) {
	assert.Empty(t, Segment(""))
	assert.Empty(t, Segment("   \n  \n"))
	assert.Empty(t, Segment("\t\r\n　\n"))
}

func TestSegmentNoTitles(t *testing.T) {
	got := Segment("just some prose, no titles")
	assert.Equal(t, []Chapter{{Title: FullTextTitle, Content: "just some prose, no titles"}}, got)

	got = Segment("\n\n  line one\nline two  \n\n")
	assert.Equal(t, []Chapter{{Title: FullTextTitle, Content: "line one\nline two"}}, got)
}

func TestSegmentChinese(t *testing.T) {
	got := Segment("第一章 开始\nHello\nworld\n第二章 继续\nFoo\nbar")
	assert.Equal(t, []Chapter{
		{Title: "第一章 开始", Content: "Hello\nworld"},
		{Title: "第二章 继续", Content: "Foo\nbar"},
	}, got)
}

func TestSegmentEnglishDropsFrontMatter(t *testing.T) {
	got := Segment("intro junk\nChapter 1 Beginnings\nLine A\nChapter 2 Middle\nLine B")
	assert.Equal(t, []Chapter{
		{Title: "Chapter 1 Beginnings", Content: "Line A"},
		{Title: "Chapter 2 Middle", Content: "Line B"},
	}, got)
}

func TestSegmentIdempotent(t *testing.T) {
	chapters := Segment("前言\n第三章 山雨欲来\n\n  风满楼。\n\n雨未至。\n")
	require.Len(t, chapters, 1)

	ch := chapters[0]
	again := Segment(ch.Title + "\n" + ch.Content)
	assert.Equal(t, []Chapter{ch}, again)
}

func TestSegmentTrimsTitlesAndContent(t *testing.T) {
	text := "　　第一章　初见　\r\n\r\n　　他来了。\r\n\r\n第二章 再见\r\n"
	got := Segment(text)
	require.Len(t, got, 2)
	assert.Equal(t, "第一章　初见", got[0].Title)
	assert.Equal(t, "他来了。", got[0].Content)
	assert.Equal(t, "第二章 再见", got[1].Title)
	assert.Equal(t, "", got[1].Content)
}

func TestSegmentConsecutiveTitles(t *testing.T) {
	got := Segment("Chapter 1\nChapter 2\nbody")
	assert.Equal(t, []Chapter{
		{Title: "Chapter 1", Content: ""},
		{Title: "Chapter 2", Content: "body"},
	}, got)
}

func TestSegmentKeepsDuplicateAndOutOfOrderNumbers(t *testing.T) {
	got := Segment("第二章 b\nx\n第一章 a\ny\n第一章 a\nz")
	require.Len(t, got, 3)
	assert.Equal(t, "第二章 b", got[0].Title)
	assert.Equal(t, "第一章 a", got[1].Title)
	assert.Equal(t, "第一章 a", got[2].Title)
}

func TestSegmentPreservesLines(t *testing.T) {
	// Every line after the first title ends up in exactly one chapter, in order.
	lines := []string{"第一章 甲", "a", "", "b", "第二章 乙", "c", "Chapter 3 丙", "d"}
	got := Segment(strings.Join(lines, "\n"))
	require.Len(t, got, 3)

	var rebuilt []string
	for _, ch := range got {
		rebuilt = append(rebuilt, ch.Title)
		if ch.Content != "" {
			rebuilt = append(rebuilt, strings.Split(ch.Content, "\n")...)
		}
	}
	assert.Equal(t, lines, rebuilt)
}

func TestSegmentBOM(t *testing.T) {
	got := Segment("\uFEFF第一章 开篇\n正文")
	assert.Equal(t, []Chapter{{Title: "第一章 开篇", Content: "正文"}}, got)
}

func TestIsChapterTitle(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"第一章 开始", true},
		{"第一章", true},
		{"  第十二章 风起", true},
		{"　　第一百零三章", true},
		{"第三千五百章 终", true},
		{"第一万章", true},
		{"第 1 章 数字", true},
		{"第12章", true},
		{"\t第二章\t离别", true},
		{"Chapter 1", true},
		{"Chapter 12: The End", true},
		{"  Chapter  7 Seven", true},
		{"Chapter\t3", true},

		{"第章", false},
		{"第一节", false},
		{"第一回 宴桃园", false},
		{"第壹章", false},
		{"序章", false},
		{"这是第一章的内容", false},
		{"ChapterX", false},
		{"Chapter1", false},
		{"Chapter One", false},
		{"chapter 1", false},
		{"CHAPTER 1", false},
		{"The Chapter 1", false},
		{"", false},
		{"   ", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, IsChapterTitle(tt.line))
		})
	}
}

func TestIsChapterTitleWhitespaceMatchesTrim(t *testing.T) {
	for r := rune(0); r <= 0xFFFF; r++ {
		if r >= 0xD800 && r <= 0xDFFF {
			continue
		}
		sp := string(r)
		want := isSpace(r)
		if got := IsChapterTitle(sp + "Chapter 1"); got != want {
			t.Errorf("leading %U: IsChapterTitle = %v, isSpace = %v", r, got, want)
		}
		if got := IsChapterTitle("Chapter" + sp + "1"); got != want {
			t.Errorf("separator %U: IsChapterTitle = %v, isSpace = %v", r, got, want)
		}
		if want {
			assert.True(t, IsChapterTitle("第一"+sp+"章"), "numeral gap %U", r)
			assert.Empty(t, trimSpace(sp+sp), "trim %U", r)
		}
	}
}

func TestSegmentVerticalWhitespaceIndent(t *testing.T) {
	got := Segment("front\n\v第一章 开始\nbody\n\u0085Chapter 2 End\nmore")
	require.Len(t, got, 2)
	assert.Equal(t, Chapter{Title: "第一章 开始", Content: "body"}, got[0])
	assert.Equal(t, Chapter{Title: "Chapter 2 End", Content: "more"}, got[1])
}

func TestBuildTOC(t *testing.T) {
	chapters := []Chapter{
		{Title: "第一章", Content: "短"},
		{Title: "第二章", Content: strings.Repeat("长", 60)},
	}
	toc := BuildTOC(chapters)
	require.Len(t, toc, 2)
	assert.Equal(t, TOCEntry{Title: "第一章", Preview: "短", Index: 0}, toc[0])
	assert.Equal(t, 1, toc[1].Index)
	assert.Equal(t, strings.Repeat("长", previewRunes)+"...", toc[1].Preview)
}

func BenchmarkSegment(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("第一章 标题\n")
		sb.WriteString(strings.Repeat("这是一段正文。\n", 50))
	}
	text := sb.String()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Segment(text)
	}
}
