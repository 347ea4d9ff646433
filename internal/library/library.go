// Package library manages imported novels: the persisted list, reading
// progress, and a cache of parsed chapters.
package library

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/metcalfc/nrr/internal/logger"
	"github.com/metcalfc/nrr/internal/reader"
	"github.com/metcalfc/nrr/internal/state"
)

var (
	ErrAlreadyImported = errors.New("novel is already in the library")
	ErrNotFound        = errors.New("novel not found")
	ErrEmptyLibrary    = errors.New("no novels available, import a novel first")
	ErrNoChapters      = errors.New("novel has no readable text")
)

// minIDPrefix is the shortest ID prefix Find accepts.
const minIDPrefix = 4

// Library is the set of imported novels backed by a state.Store.
type Library struct {
	store   *state.Store
	cache   *lru.Cache[string, []reader.Chapter]
	extract func(filename string) ([]reader.Chapter, error)
}

// New returns a Library keeping up to cacheSize parsed novels in memory.
func New(store *state.Store, cacheSize int) (*Library, error) {
	cache, err := lru.New[string, []reader.Chapter](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating chapter cache: %w", err)
	}
	return &Library{
		store:   store,
		cache:   cache,
		extract: reader.ExtractChapters,
	}, nil
}

// Store returns the backing store.
func (l *Library) Store() *state.Store {
	return l.store
}

// List returns all novels in import order.
func (l *Library) List() ([]state.Novel, error) {
	return l.store.Novels()
}

// Import adds the file at path to the library. The title is the file name
// without its extension and the ID is a hash of the file's content.
func (l *Library) Import(path string) (state.Novel, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return state.Novel{}, fmt.Errorf("resolving %s: %w", path, err)
	}
	title := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))

	novels, err := l.store.Novels()
	if err != nil {
		return state.Novel{}, err
	}
	for _, n := range novels {
		if n.Path == abs {
			return n, fmt.Errorf("%w: %q", ErrAlreadyImported, title)
		}
	}

	id, err := state.ComputeHash(abs)
	if err != nil {
		return state.Novel{}, fmt.Errorf("unable to read file %s: %w", abs, err)
	}

	novel := state.Novel{ID: id, Title: title, Path: abs}
	if err := l.store.SetNovels(append(novels, novel)); err != nil {
		return state.Novel{}, fmt.Errorf("saving library: %w", err)
	}
	logger.Info("imported novel", "title", title, "id", id)
	return novel, nil
}

// Find looks a novel up by exact ID, unique ID prefix, or title
// (case-insensitive), in that order.
func (l *Library) Find(ref string) (state.Novel, error) {
	novels, err := l.store.Novels()
	if err != nil {
		return state.Novel{}, err
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return state.Novel{}, fmt.Errorf("%w: empty reference", ErrNotFound)
	}

	for _, n := range novels {
		if n.ID == ref {
			return n, nil
		}
	}

	if len(ref) >= minIDPrefix {
		var matches []state.Novel
		for _, n := range novels {
			if strings.HasPrefix(n.ID, ref) {
				matches = append(matches, n)
			}
		}
		if len(matches) == 1 {
			return matches[0], nil
		}
		if len(matches) > 1 {
			return state.Novel{}, fmt.Errorf("%w: %q matches %d novels", ErrNotFound, ref, len(matches))
		}
	}

	for _, n := range novels {
		if strings.EqualFold(n.Title, ref) {
			return n, nil
		}
	}
	return state.Novel{}, fmt.Errorf("%w: %q", ErrNotFound, ref)
}

// Remove deletes the novel ref resolves to (see Find) from the library.
func (l *Library) Remove(ref string) (state.Novel, error) {
	novel, err := l.Find(ref)
	if err != nil {
		return state.Novel{}, err
	}
	return novel, l.RemoveNovel(novel)
}

// RemoveNovel deletes a stored novel, matched by path so records without an
// ID can still be removed.
func (l *Library) RemoveNovel(novel state.Novel) error {
	novels, err := l.store.Novels()
	if err != nil {
		return err
	}

	kept := make([]state.Novel, 0, len(novels))
	for _, n := range novels {
		if n.Path != novel.Path {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(novels) {
		return fmt.Errorf("%w: %q", ErrNotFound, novel.Title)
	}
	if err := l.store.SetNovels(kept); err != nil {
		return fmt.Errorf("saving library: %w", err)
	}

	l.cache.Remove(cacheKey(novel))
	if novel.ID != "" && l.store.LastViewed() == novel.ID {
		if err := l.store.Delete(state.KeyLastViewed); err != nil {
			return err
		}
	}
	logger.Info("removed novel", "title", novel.Title)
	return nil
}

// Current returns the last viewed novel, falling back to the first one.
func (l *Library) Current() (state.Novel, error) {
	novels, err := l.store.Novels()
	if err != nil {
		return state.Novel{}, err
	}
	if len(novels) == 0 {
		return state.Novel{}, ErrEmptyLibrary
	}
	if last := l.store.LastViewed(); last != "" {
		for _, n := range novels {
			if n.ID == last {
				return n, nil
			}
		}
	}
	return novels[0], nil
}

// Chapters returns the parsed chapters of novel, using the cache when the
// novel was parsed before.
func (l *Library) Chapters(novel state.Novel) ([]reader.Chapter, error) {
	key := cacheKey(novel)
	if chapters, ok := l.cache.Get(key); ok {
		return chapters, nil
	}

	chapters, err := l.extract(novel.Path)
	if err != nil {
		return nil, err
	}
	l.cache.Add(key, chapters)
	logger.Debug("parsed novel", "title", novel.Title, "chapters", len(chapters))
	return chapters, nil
}

// Open starts a reading session on novel at chapter index (clamped). The
// novel becomes the last viewed one and saved settings are applied.
func (l *Library) Open(novel state.Novel, index int) (*reader.Reader, error) {
	chapters, err := l.Chapters(novel)
	if err != nil {
		return nil, err
	}
	if len(chapters) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoChapters, novel.Path)
	}

	log := logger.With("novel", novel.Title)
	r := reader.NewReader(chapters, index)
	r.FontSize = l.store.FontSize()
	r.ShowControls = l.store.ControlsVisible()
	if r.CurrentChapter != index {
		log.Warn("chapter out of range", "requested", index, "opened", r.CurrentChapter)
	}

	if r.CurrentChapter != novel.CurrentChapter {
		if err := l.SaveProgress(novel, r.CurrentChapter); err != nil {
			return nil, err
		}
	}
	if novel.ID != "" {
		if err := l.store.SetLastViewed(novel.ID); err != nil {
			return nil, err
		}
	}
	log.Debug("opened novel", "chapter", r.CurrentChapter, "of", len(chapters))
	return r, nil
}

// SaveProgress records the current chapter of novel.
func (l *Library) SaveProgress(novel state.Novel, index int) error {
	novels, err := l.store.Novels()
	if err != nil {
		return err
	}
	for i := range novels {
		if novels[i].Path == novel.Path {
			if novels[i].CurrentChapter == index {
				return nil
			}
			novels[i].CurrentChapter = index
			return l.store.SetNovels(novels)
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, novel.Path)
}

// SaveSettings records the font size and controls visibility of r.
func (l *Library) SaveSettings(r *reader.Reader) error {
	if l.store.FontSize() != r.FontSize {
		if err := l.store.SetFontSize(r.FontSize); err != nil {
			return err
		}
	}
	if l.store.ControlsVisible() != r.ShowControls {
		return l.store.SetControlsVisible(r.ShowControls)
	}
	return nil
}

// RefreshIDs fills in missing IDs for novels stored without one. Files that
// cannot be read are skipped. It returns the number of novels updated.
func (l *Library) RefreshIDs() (int, error) {
	novels, err := l.store.Novels()
	if err != nil {
		return 0, err
	}
	updated := 0
	for i := range novels {
		if novels[i].ID != "" {
			continue
		}
		id, err := state.ComputeHash(novels[i].Path)
		if err != nil {
			logger.Warn("cannot hash novel", "path", novels[i].Path, "err", err)
			continue
		}
		novels[i].ID = id
		updated++
	}
	if updated == 0 {
		return 0, nil
	}
	if err := l.store.SetNovels(novels); err != nil {
		return 0, err
	}
	logger.Info("updated novel IDs", "count", updated)
	return updated, nil
}

func cacheKey(n state.Novel) string {
	if n.ID != "" {
		return n.ID + "\x00" + n.Path
	}
	return n.Path
}
