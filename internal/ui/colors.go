package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/songle/internal/formatter"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// EmbedCard renders e as a card with a left border in the embed's color.
func EmbedCard(e formatter.Embed, width int) string {
	color := lipgloss.Color(e.Hex())
	card := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(color).
		PaddingLeft(1)
	if width > 4 {
		card = card.Width(width - 2)
	}

	body := NewBold(e.Hex()).Render(e.Title)
	if e.Description != "" {
		body += "\n" + e.Description
	}
	for _, f := range e.Fields {
		body += "\n" + styles.warn.Render(f.Name) + "\n" + f.Value
	}
	if e.Footer != "" {
		body += "\n" + styles.help.Render(e.Footer)
	}
	return card.Render(body)
}
