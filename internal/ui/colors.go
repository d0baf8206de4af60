package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// moodColors tints known mood words in the result view.
var moodColors = map[string]string{
	"happy":       "#FFD700",
	"joyful":      "#FFD700",
	"upbeat":      "#FFD700",
	"energetic":   "#FF8C00",
	"angry":       "#DC143C",
	"romantic":    "#FF69B4",
	"calm":        "#66CDAA",
	"peaceful":    "#66CDAA",
	"nostalgic":   "#D2B48C",
	"sad":         "#4682B4",
	"melancholic": "#6A5ACD",
	"melancholy":  "#6A5ACD",
	"dark":        "#708090",
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
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

// Mood renders a mood label in the color of its first known word, falling back to the title color.
func (p *Palette) Mood(mood string) string {
	for _, word := range strings.Fields(strings.ToLower(mood)) {
		if c, ok := moodColors[strings.Trim(word, ",.-")]; ok {
			return NewBold(c).Render(mood)
		}
	}
	return p.title.UnsetMarginBottom().Render(mood)
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
