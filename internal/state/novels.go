package state

import "github.com/metcalfc/nrr/internal/reader"

// Keys used by the reader application.
const (
	KeyNovels          = "novels"
	KeyLastViewed      = "lastViewedNovelId"
	KeyFontSize        = "fontSize"
	KeyControlsVisible = "controlsVisible"
)

// Novel is a library entry.
type Novel struct {
	ID             string `json:"id,omitempty"`
	Title          string `json:"title"`
	Path           string `json:"path"`
	CurrentChapter int    `json:"currentChapter"`
}

// Novels returns the library in import order.
func (s *Store) Novels() ([]Novel, error) {
	var novels []Novel
	if _, err := s.Get(KeyNovels, &novels); err != nil {
		return nil, err
	}
	return novels, nil
}

// SetNovels replaces the library.
func (s *Store) SetNovels(novels []Novel) error {
	if novels == nil {
		novels = []Novel{}
	}
	return s.Update(KeyNovels, novels)
}

// LastViewed returns the ID of the last opened novel, or "".
func (s *Store) LastViewed() string {
	var id string
	if _, err := s.Get(KeyLastViewed, &id); err != nil {
		return ""
	}
	return id
}

// SetLastViewed records the ID of the novel being read.
func (s *Store) SetLastViewed(id string) error {
	return s.Update(KeyLastViewed, id)
}

// FontSize returns the saved font size or reader.DefaultFontSize.
func (s *Store) FontSize() int {
	size := reader.DefaultFontSize
	if _, err := s.Get(KeyFontSize, &size); err != nil {
		return reader.DefaultFontSize
	}
	return reader.ClampFontSize(size)
}

// SetFontSize saves the font size.
func (s *Store) SetFontSize(size int) error {
	return s.Update(KeyFontSize, reader.ClampFontSize(size))
}

// ControlsVisible returns the saved controls visibility, default true.
func (s *Store) ControlsVisible() bool {
	visible := true
	if _, err := s.Get(KeyControlsVisible, &visible); err != nil {
		return true
	}
	return visible
}

// SetControlsVisible saves the controls visibility.
func (s *Store) SetControlsVisible(visible bool) error {
	return s.Update(KeyControlsVisible, visible)
}
