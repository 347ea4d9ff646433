//go:build !gui

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/metcalfc/nrr/internal/config"
	"github.com/metcalfc/nrr/internal/library"
	"github.com/metcalfc/nrr/internal/logger"
	"github.com/metcalfc/nrr/internal/reader"
	"github.com/metcalfc/nrr/internal/state"
)

const frontend = "terminal"

// Header is the chapter title plus the status line.
const headerHeight = 2

// Terminal columns per font size step.
const columnsPerFontUnit = 4

const controlsHelp = "←/→: chapter  ↑/↓: scroll  +/-: width  T: chapters  C: controls  X: hide  Q: quit"

const hiddenHelp = "X: show"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFAA00"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)
)

type tocItem struct {
	entry reader.TOCEntry
}

func (i tocItem) Title() string       { return fmt.Sprintf("%d. %s", i.entry.Index+1, i.entry.Title) }
func (i tocItem) Description() string { return i.entry.Preview }
func (i tocItem) FilterValue() string { return i.entry.Title }

type model struct {
	*reader.Reader
	novel      state.Novel
	lib        *library.Library
	viewport   viewport.Model
	toc        list.Model
	tocVisible bool
	hidden     bool
	notice     string
	quitting   bool
	width      int
	height     int
}

func newModel(r *reader.Reader, novel state.Novel, lib *library.Library) model {
	entries := r.TOC()
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = tocItem{entry: e}
	}

	toc := list.New(items, list.NewDefaultDelegate(), 80, 24)
	toc.Title = "Table of Contents"
	toc.DisableQuitKeybindings()

	m := model{
		Reader:   r,
		novel:    novel,
		lib:      lib,
		viewport: viewport.New(80, 24),
		toc:      toc,
		width:    80,
		height:   24,
	}
	m.resize()
	m.renderChapter()
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.renderChapter()
		return m, nil

	case tea.KeyMsg:
		if m.hidden {
			return m.updateHidden(msg)
		}
		if m.tocVisible {
			return m.updateTOC(msg)
		}

		switch msg.String() {
		case "left", "h", "p":
			if m.Prev() {
				m.chapterChanged()
			} else {
				m.notice = "First chapter"
			}
			return m, nil

		case "right", "l", "n":
			if m.Next() {
				m.chapterChanged()
			} else {
				m.notice = "Last chapter"
			}
			return m, nil

		case "+", "=":
			if m.IncreaseFont() {
				m.settingsChanged()
				m.renderChapter()
			}
			return m, nil

		case "-":
			if m.DecreaseFont() {
				m.settingsChanged()
				m.renderChapter()
			}
			return m, nil

		case "c", "C":
			m.ToggleControls()
			m.settingsChanged()
			m.resize()
			return m, nil

		case "t", "T":
			m.tocVisible = true
			m.toc.Select(m.CurrentChapter)
			return m, nil

		case "x", "X", "delete":
			m.hidden = true
			return m, nil

		case "q", "Q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// updateHidden ignores everything but restoring and quitting.
func (m model) updateHidden(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "x", "X", "delete":
		m.hidden = false
		m.renderChapter()
	case "q", "Q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) updateTOC(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.toc.FilterState() != list.Filtering {
		switch msg.String() {
		case "q", "Q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "t", "T":
			m.tocVisible = false
			return m, nil

		case "esc":
			if m.toc.FilterState() == list.Unfiltered {
				m.tocVisible = false
				return m, nil
			}

		case "enter":
			if item, ok := m.toc.SelectedItem().(tocItem); ok && item.entry.Index != m.CurrentChapter {
				if m.JumpToChapter(item.entry.Index) {
					m.chapterChanged()
				}
			}
			m.tocVisible = false
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.toc, cmd = m.toc.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if m.hidden {
		if m.ShowControls {
			return controlsStyle.Render(hiddenHelp)
		}
		return ""
	}
	if m.tocVisible {
		return m.toc.View()
	}

	ch := m.Current()
	current, total := m.Progress()
	status := fmt.Sprintf("Chapter %d/%d | %s | Font %d", current, total, m.novel.Title, m.FontSize)
	if m.notice != "" {
		status += " " + noticeStyle.Render(m.notice)
	}

	var sb strings.Builder
	sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, titleStyle.Render(ch.Title)))
	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render(status))
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	if m.ShowControls {
		sb.WriteString("\n")
		sb.WriteString(controlsStyle.Render(controlsHelp))
	}
	return sb.String()
}

// columnWidth maps the font size setting to a text column width.
func (m *model) columnWidth() int {
	w := m.FontSize * columnsPerFontUnit
	if w > m.width-2 {
		w = m.width - 2
	}
	if w < 10 {
		w = 10
	}
	return w
}

func (m *model) resize() {
	m.toc.SetSize(m.width, m.height)

	h := m.height - headerHeight
	if m.ShowControls {
		h--
	}
	if h < 1 {
		h = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
}

func (m *model) renderChapter() {
	width := m.columnWidth()
	pad := (m.width - width) / 2
	if pad < 0 {
		pad = 0
	}
	body := lipgloss.NewStyle().
		Width(width).
		MarginLeft(pad).
		Render(m.Current().Content)
	m.viewport.SetContent(body)
	m.viewport.GotoTop()
}

func (m *model) chapterChanged() {
	m.notice = ""
	m.renderChapter()
	if m.lib == nil {
		return
	}
	if err := m.lib.SaveProgress(m.novel, m.CurrentChapter); err != nil {
		logger.Error("saving progress failed", "novel", m.novel.Title, "err", err)
	}
}

func (m *model) settingsChanged() {
	if m.lib == nil {
		return
	}
	if err := m.lib.SaveSettings(m.Reader); err != nil {
		logger.Error("saving settings failed", "err", err)
	}
}

// redirectLogs keeps log output off the alternate screen while the reader runs.
func redirectLogs(path string) (restore func(), err error) {
	if path == "" {
		logger.SetOutput(io.Discard)
		return func() { logger.SetOutput(os.Stderr) }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	logger.SetOutput(f)
	return func() {
		logger.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

func runReader(cfg *config.Config, lib *library.Library, novel state.Novel, r *reader.Reader) error {
	restore, err := redirectLogs(cfg.LogFile)
	if err != nil {
		return err
	}
	defer restore()

	p := tea.NewProgram(newModel(r, novel, lib), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running reader: %w", err)
	}
	return nil
}
