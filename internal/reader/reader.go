// Package reader splits novels into chapters and tracks a reading session
// over them.
package reader

// Font size bounds shared by the terminal and desktop readers.
const (
	DefaultFontSize = 16
	MinFontSize     = 10
	MaxFontSize     = 35
	FontStep        = 1
)

// Reader holds the state for a chapter-at-a-time reading session.
type Reader struct {
	Chapters       []Chapter
	CurrentChapter int
	FontSize       int
	ShowControls   bool
}

// NewReader creates a Reader positioned at start, clamped into range.
func NewReader(chapters []Chapter, start int) *Reader {
	r := &Reader{
		Chapters:     chapters,
		FontSize:     DefaultFontSize,
		ShowControls: true,
	}
	r.CurrentChapter = r.clamp(start)
	return r
}

func (r *Reader) clamp(i int) int {
	if i >= len(r.Chapters) {
		i = len(r.Chapters) - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Current returns the chapter at the current index.
func (r *Reader) Current() Chapter {
	if r.CurrentChapter >= 0 && r.CurrentChapter < len(r.Chapters) {
		return r.Chapters[r.CurrentChapter]
	}
	return Chapter{}
}

// Next moves to the following chapter. Returns false at the last chapter.
func (r *Reader) Next() bool {
	if r.CurrentChapter < len(r.Chapters)-1 {
		r.CurrentChapter++
		return true
	}
	return false
}

// Prev moves to the preceding chapter. Returns false at the first chapter.
func (r *Reader) Prev() bool {
	if r.CurrentChapter > 0 {
		r.CurrentChapter--
		return true
	}
	return false
}

// JumpToChapter moves to chapter i. Out-of-range indexes are ignored.
func (r *Reader) JumpToChapter(i int) bool {
	if i >= 0 && i < len(r.Chapters) {
		r.CurrentChapter = i
		return true
	}
	return false
}

// IsFirst returns true if the reader is at the first chapter.
func (r *Reader) IsFirst() bool {
	return r.CurrentChapter <= 0
}

// IsLast returns true if the reader is at the last chapter.
func (r *Reader) IsLast() bool {
	return r.CurrentChapter >= len(r.Chapters)-1
}

// Progress returns the 1-based current chapter and the chapter count.
func (r *Reader) Progress() (current, total int) {
	return r.CurrentChapter + 1, len(r.Chapters)
}

// TOC returns the table of contents for the session's chapters.
func (r *Reader) TOC() []TOCEntry {
	return BuildTOC(r.Chapters)
}

// SetFontSize sets the font size, clamped to [MinFontSize, MaxFontSize].
func (r *Reader) SetFontSize(size int) {
	r.FontSize = ClampFontSize(size)
}

// IncreaseFont grows the font by one step. Returns false at the maximum.
func (r *Reader) IncreaseFont() bool {
	if r.FontSize < MaxFontSize {
		r.FontSize += FontStep
		return true
	}
	return false
}

// DecreaseFont shrinks the font by one step. Returns false at the minimum.
func (r *Reader) DecreaseFont() bool {
	if r.FontSize > MinFontSize {
		r.FontSize -= FontStep
		return true
	}
	return false
}

// ToggleControls flips control visibility and returns the new value.
func (r *Reader) ToggleControls() bool {
	r.ShowControls = !r.ShowControls
	return r.ShowControls
}

// ClampFontSize bounds size to the supported range.
func ClampFontSize(size int) int {
	if size < MinFontSize {
		return MinFontSize
	}
	if size > MaxFontSize {
		return MaxFontSize
	}
	return size
}
