package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/morningcharge/internal/models"
)

var styles = NewPalette("#7D56F4", "#06D6A0", "#FF6B6B", "#FFD166", "#626262")

// interface Painter defines coloring text with [lipgloss] styles
type Painter interface {
	As(string, lipgloss.Color) string // Sets a bold foreground color
}

var _ Painter = (*Palette)(nil)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	panel lipgloss.Style
	big   lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		panel: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(t)).Padding(1, 2),
		big:   NewBold(t).Padding(0, 1),
	}
}

func (p *Palette) As(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render(s)
}

// urgency picks the countdown style.
func (p *Palette) urgency(u models.Urgency) lipgloss.Style {
	switch u {
	case models.UrgencyDanger:
		return p.err
	case models.UrgencyWarning:
		return p.warn.Bold(true)
	default:
		return p.ok
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
