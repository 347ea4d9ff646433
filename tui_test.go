//go:build !gui

package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metcalfc/nrr/internal/reader"
	"github.com/metcalfc/nrr/internal/state"
)

func testChapters() []reader.Chapter {
	return []reader.Chapter{
		{Title: "第一章 开始", Content: "Hello world"},
		{Title: "第二章 继续", Content: "Foo bar"},
		{Title: "第三章 结束", Content: "The end"},
	}
}

func newTestModel(start int) model {
	r := reader.NewReader(testChapters(), start)
	return newModel(r, state.Novel{Title: "三体"}, nil)
}

func press(t *testing.T, m model, keys ...tea.KeyMsg) model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		var ok bool
		m, ok = next.(model)
		require.True(t, ok)
	}
	return m
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModelNavigation(t *testing.T) {
	m := newTestModel(0)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.CurrentChapter)

	m = press(t, m, runeKey('n'), runeKey('l'))
	assert.Equal(t, 2, m.CurrentChapter)
	assert.Equal(t, "Last chapter", m.notice)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, m.CurrentChapter)
	assert.Empty(t, m.notice)

	m = press(t, m, runeKey('p'), runeKey('h'))
	assert.Equal(t, 0, m.CurrentChapter)
	assert.Equal(t, "First chapter", m.notice)
}

func TestModelFontSize(t *testing.T) {
	m := newTestModel(0)
	require.Equal(t, reader.DefaultFontSize, m.FontSize)

	m = press(t, m, runeKey('+'), runeKey('='))
	assert.Equal(t, reader.DefaultFontSize+2, m.FontSize)

	m = press(t, m, runeKey('-'))
	assert.Equal(t, reader.DefaultFontSize+1, m.FontSize)

	for i := 0; i < 50; i++ {
		m = press(t, m, runeKey('-'))
	}
	assert.Equal(t, reader.MinFontSize, m.FontSize)
}

func TestModelColumnWidth(t *testing.T) {
	m := newTestModel(0)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 200, Height: 50})
	m = next.(model)
	assert.Equal(t, reader.DefaultFontSize*columnsPerFontUnit, m.columnWidth())

	next, _ = m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	m = next.(model)
	assert.Equal(t, 28, m.columnWidth())
	assert.Equal(t, 10-headerHeight-1, m.viewport.Height)
}

func TestModelToggleControls(t *testing.T) {
	m := newTestModel(0)
	require.True(t, m.ShowControls)
	assert.Contains(t, m.View(), controlsHelp)

	m = press(t, m, runeKey('c'))
	assert.False(t, m.ShowControls)
	assert.NotContains(t, m.View(), controlsHelp)
	assert.Equal(t, m.height-headerHeight, m.viewport.Height)
}

func TestModelView(t *testing.T) {
	m := newTestModel(1)
	view := m.View()
	assert.Contains(t, view, "第二章 继续")
	assert.Contains(t, view, "Chapter 2/3")
	assert.Contains(t, view, "三体")
	assert.Contains(t, view, "Foo bar")
}

func TestModelTOC(t *testing.T) {
	m := newTestModel(0)

	m = press(t, m, runeKey('t'))
	require.True(t, m.tocVisible)
	assert.Equal(t, 0, m.toc.Index())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.tocVisible)
	assert.Equal(t, 2, m.CurrentChapter)

	m = press(t, m, runeKey('t'))
	assert.Equal(t, 2, m.toc.Index())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.tocVisible)
	assert.Equal(t, 2, m.CurrentChapter)
}

func TestModelHide(t *testing.T) {
	m := newTestModel(1)

	m = press(t, m, runeKey('x'))
	require.True(t, m.hidden)
	view := m.View()
	assert.NotContains(t, view, "第二章 继续")
	assert.NotContains(t, view, "Foo bar")
	assert.Contains(t, view, hiddenHelp)

	// Navigation is ignored while hidden.
	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, runeKey('+'), runeKey('t'))
	assert.Equal(t, 1, m.CurrentChapter)
	assert.Equal(t, reader.DefaultFontSize, m.FontSize)
	assert.False(t, m.tocVisible)

	m = press(t, m, runeKey('c'))
	assert.True(t, m.ShowControls)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDelete})
	require.False(t, m.hidden)
	assert.Contains(t, m.View(), "Foo bar")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDelete}, runeKey('x'))
	assert.False(t, m.hidden)

	m = press(t, newTestModel(0), runeKey('c'), runeKey('x'))
	assert.Empty(t, m.View())

	_, cmd := m.Update(runeKey('q'))
	assert.NotNil(t, cmd)
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(0)

	next, cmd := m.Update(runeKey('q'))
	require.NotNil(t, cmd)
	assert.True(t, next.(model).quitting)
	assert.Empty(t, next.(model).View())

	m = press(t, newTestModel(0), runeKey('t'))
	_, cmd = m.Update(runeKey('q'))
	assert.NotNil(t, cmd)
}
