package reader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metcalfc/nrr/internal/charset"
)

func TestExtractChapters(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("plain text", func(t *testing.T) {
		path := filepath.Join(tmpDir, "novel.txt")
		require.NoError(t, os.WriteFile(path, []byte("第一章 开始\n正文一\n第二章 继续\n正文二"), 0644))

		got, err := ExtractChapters(path)
		require.NoError(t, err)
		assert.Equal(t, []Chapter{
			{Title: "第一章 开始", Content: "正文一"},
			{Title: "第二章 继续", Content: "正文二"},
		}, got)
	})

	t.Run("legacy encoding", func(t *testing.T) {
		text := "第一章 开始\n" + repeatLine("天色已晚，他推开了那扇门，走进了一间昏暗的屋子。", 40)
		data, ok := charset.Encode(text, "GB18030")
		require.True(t, ok)
		path := filepath.Join(tmpDir, "gbk.txt")
		require.NoError(t, os.WriteFile(path, data, 0644))

		got, err := ExtractChapters(path)
		require.NoError(t, err)
		require.NotEmpty(t, got)
		// Detection is statistical; the title line must at least survive as text.
		assert.NotEmpty(t, got[0].Title)
	})

	t.Run("unknown extension", func(t *testing.T) {
		path := filepath.Join(tmpDir, "novel.text")
		require.NoError(t, os.WriteFile(path, []byte("Chapter 1 One\nbody"), 0644))

		got, err := ExtractChapters(path)
		require.NoError(t, err)
		assert.Equal(t, []Chapter{{Title: "Chapter 1 One", Content: "body"}}, got)
	})

	t.Run("nonexistent file", func(t *testing.T) {
		path := filepath.Join(tmpDir, "nonexistent.txt")
		_, err := ExtractChapters(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), path)
	})
}

func TestExtractText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "novel.txt")
	require.NoError(t, os.WriteFile(path, []byte("junk\nChapter 1 A\nx\nChapter 2 B\n"), 0644))

	got, err := ExtractText(path)
	require.NoError(t, err)
	assert.Equal(t, "Chapter 1 A\nx\n\nChapter 2 B", got)
}

func TestJoinChapters(t *testing.T) {
	assert.Equal(t, "", JoinChapters(nil))
	assert.Equal(t, "A\nx\n\nB", JoinChapters([]Chapter{
		{Title: "A", Content: "x"},
		{Title: "B"},
	}))
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"book.txt", "Text"},
		{"BOOK.TXT", "Text"},
		{"notes.md", "Markdown"},
		{"notes.markdown", "Markdown"},
		{"book.epub", "EPUB"},
		{"book", "Text"},
		{"book.log", "Text"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFor(tt.filename).Name())
		})
	}
}

func TestEPUBFormat(t *testing.T) {
	f := &EPUBFormat{}
	assert.Equal(t, "EPUB", f.Name())
	assert.Equal(t, []string{".epub"}, f.Extensions())
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	assert.Contains(t, formats, "Text (.txt)")
	assert.Contains(t, formats, "Markdown (.md, .markdown)")
	assert.Contains(t, formats, "EPUB (.epub)")
}

func repeatLine(line string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += line + "\n"
	}
	return out
}
