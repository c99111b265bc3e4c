// Package render formats generated content for the terminal.
package render

import "charm.land/lipgloss/v2"

// Palette.
var (
	Primary = lipgloss.Color("#8B5CF6")
	Accent  = lipgloss.Color("#F97316")
	Success = lipgloss.Color("#22C55E")
	Warning = lipgloss.Color("#F43F5E")
	Text    = lipgloss.Color("#F8FAFC")
	TextDim = lipgloss.Color("#94A3B8")
	Border  = lipgloss.Color("#334155")
)

// Theme holds the styles used by a Renderer.
type Theme struct {
	Title    lipgloss.Style
	Heading  lipgloss.Style
	Body     lipgloss.Style
	Formula  lipgloss.Style
	Dim      lipgloss.Style
	Accepted lipgloss.Style
	Degraded lipgloss.Style
	Card     lipgloss.Style
}

// ColorTheme is the default terminal theme.
func ColorTheme() Theme {
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(Primary),
		Heading:  lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Body:     lipgloss.NewStyle().Foreground(Text),
		Formula:  lipgloss.NewStyle().Foreground(Accent),
		Dim:      lipgloss.NewStyle().Foreground(TextDim).Italic(true),
		Accepted: lipgloss.NewStyle().Foreground(Success).Bold(true),
		Degraded: lipgloss.NewStyle().Foreground(Warning).Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1),
	}
}

// PlainTheme renders without colors or borders, for pipes and tests.
func PlainTheme() Theme {
	s := lipgloss.NewStyle()
	return Theme{
		Title: s, Heading: s, Body: s, Formula: s,
		Dim: s, Accepted: s, Degraded: s, Card: s,
	}
}
