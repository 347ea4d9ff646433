//go:build gui

package main

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/metcalfc/nrr/internal/config"
	"github.com/metcalfc/nrr/internal/library"
	"github.com/metcalfc/nrr/internal/logger"
	"github.com/metcalfc/nrr/internal/reader"
	"github.com/metcalfc/nrr/internal/state"
)

const frontend = "desktop"

// fontTheme scales body text to the reader's font size.
type fontTheme struct {
	fyne.Theme
	size float32
}

func newFontTheme(size int) *fontTheme {
	return &fontTheme{Theme: theme.DefaultTheme(), size: float32(size)}
}

func (t *fontTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return t.size
	case theme.SizeNameHeadingText:
		return t.size * 1.5
	}
	return t.Theme.Size(name)
}

func runReader(cfg *config.Config, lib *library.Library, novel state.Novel, r *reader.Reader) error {
	a := app.New()
	a.Settings().SetTheme(newFontTheme(r.FontSize))
	w := a.NewWindow("nrr - " + novel.Title)

	titleText := canvas.NewText("", color.RGBA{R: 255, G: 170, B: 0, A: 255})
	titleText.TextStyle.Bold = true
	titleText.Alignment = fyne.TextAlignCenter

	contentLabel := widget.NewLabel("")
	contentLabel.Wrapping = fyne.TextWrapWord
	scroll := container.NewVScroll(contentLabel)

	statusLabel := widget.NewLabel("")
	statusLabel.Alignment = fyne.TextAlignCenter

	controlsLabel := widget.NewLabel("←/→: chapter  +/-: font  T: chapters  C: controls  X: hide  F: fullscreen  Q: quit")
	controlsLabel.Alignment = fyne.TextAlignCenter

	toc := r.TOC()
	var (
		tocPanel *container.Split
		update   func()
	)

	saveProgress := func() {
		if err := lib.SaveProgress(novel, r.CurrentChapter); err != nil {
			logger.Error("saving progress failed", "novel", novel.Title, "err", err)
		}
	}
	saveSettings := func() {
		if err := lib.SaveSettings(r); err != nil {
			logger.Error("saving settings failed", "err", err)
		}
	}

	prevBtn := widget.NewButton("Previous", func() {
		if r.Prev() {
			saveProgress()
			update()
		}
	})
	nextBtn := widget.NewButton("Next", func() {
		if r.Next() {
			saveProgress()
			update()
		}
	})
	controls := container.NewBorder(nil, nil, prevBtn, nextBtn, controlsLabel)

	tocList := widget.NewList(
		func() int { return len(toc) },
		func() fyne.CanvasObject {
			return container.NewVBox(
				widget.NewLabel("Title"),
				widget.NewLabel("Preview"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			entry := toc[id]
			vbox := obj.(*fyne.Container)
			titleLabel := vbox.Objects[0].(*widget.Label)
			previewLabel := vbox.Objects[1].(*widget.Label)
			titleLabel.SetText(fmt.Sprintf("%d. %s", entry.Index+1, entry.Title))
			titleLabel.TextStyle.Bold = true
			previewLabel.SetText(entry.Preview)
		},
	)

	setTOCVisible := func(visible bool) {
		if visible {
			tocList.Select(r.CurrentChapter)
			tocPanel.Leading.Show()
		} else {
			tocPanel.Leading.Hide()
		}
		tocPanel.Refresh()
	}

	tocList.OnSelected = func(id widget.ListItemID) {
		if id != r.CurrentChapter && r.JumpToChapter(id) {
			saveProgress()
			update()
		}
		setTOCVisible(false)
	}

	readingContent := container.NewBorder(
		container.NewVBox(titleText, statusLabel),
		controls,
		nil, nil,
		scroll,
	)
	tocContainer := container.NewBorder(
		widget.NewLabel("Table of Contents"),
		widget.NewLabel("Click to jump • T to close"),
		nil, nil,
		tocList,
	)
	tocPanel = container.NewHSplit(tocContainer, readingContent)
	tocPanel.Offset = 0.3
	tocContainer.Hide()

	update = func() {
		ch := r.Current()
		titleText.Text = ch.Title
		titleText.TextSize = float32(r.FontSize) * 1.5
		titleText.Refresh()
		contentLabel.SetText(ch.Content)
		scroll.ScrollToTop()

		current, total := r.Progress()
		statusLabel.SetText(fmt.Sprintf("Chapter %d/%d | %s | Font: %d", current, total, novel.Title, r.FontSize))

		if r.IsFirst() {
			prevBtn.Disable()
		} else {
			prevBtn.Enable()
		}
		if r.IsLast() {
			nextBtn.Disable()
		} else {
			nextBtn.Enable()
		}
		if r.ShowControls {
			controls.Show()
		} else {
			controls.Hide()
		}
	}

	hidden := false
	blank := container.NewStack()
	toggleHidden := func() {
		hidden = !hidden
		if hidden {
			w.SetContent(blank)
			return
		}
		w.SetContent(tocPanel)
		update()
	}

	applyFont := func() {
		a.Settings().SetTheme(newFontTheme(r.FontSize))
		saveSettings()
		update()
	}

	w.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		if key.Name == fyne.KeyDelete {
			toggleHidden()
			return
		}
		if hidden && key.Name != fyne.KeyQ {
			return
		}
		switch key.Name {
		case fyne.KeyLeft, fyne.KeyH, fyne.KeyP:
			if r.Prev() {
				saveProgress()
				update()
			}
		case fyne.KeyRight, fyne.KeyL, fyne.KeyN:
			if r.Next() {
				saveProgress()
				update()
			}
		case fyne.KeyF:
			w.SetFullScreen(!w.FullScreen())
		case fyne.KeyEscape:
			if tocContainer.Visible() {
				setTOCVisible(false)
			}
		case fyne.KeyQ:
			a.Quit()
		}
	})

	w.Canvas().SetOnTypedRune(func(ch rune) {
		if ch == 'x' || ch == 'X' {
			toggleHidden()
			return
		}
		if hidden {
			return
		}
		switch ch {
		case 't', 'T':
			setTOCVisible(!tocContainer.Visible())
		case 'c', 'C':
			r.ToggleControls()
			saveSettings()
			update()
		case '+', '=':
			if r.IncreaseFont() {
				applyFont()
			}
		case '-':
			if r.DecreaseFont() {
				applyFont()
			}
		}
	})

	w.Resize(fyne.NewSize(800, 600))
	w.SetContent(tocPanel)
	update()

	logger.Debug("desktop reader started", "novel", novel.Title, "chapter", r.CurrentChapter, "state", cfg.StateDir)
	w.ShowAndRun()
	return nil
}
