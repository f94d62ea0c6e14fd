package tui

import "github.com/charmbracelet/lipgloss"

// Interlink palette.
var (
	colorPrimary = lipgloss.Color("#4F46E5")
	colorMuted   = lipgloss.Color("#6B7280")
	colorTile    = lipgloss.Color("#E0E7FF")
	colorTileFg  = lipgloss.Color("#312E81")
	colorError   = lipgloss.Color("#DC2626")
	colorSuccess = lipgloss.Color("#16A34A")
)

// Styles groups the lipgloss styles of the card.
type Styles struct {
	Card         lipgloss.Style
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Chevron      lipgloss.Style
	Label        lipgloss.Style
	FocusedLabel lipgloss.Style
	Tile         lipgloss.Style
	SelectedTile lipgloss.Style
	Section      lipgloss.Style
	Notice       lipgloss.Style
	Error        lipgloss.Style
	Success      lipgloss.Style
	Help         lipgloss.Style
}

// DefaultStyles returns the default card styling.
func DefaultStyles() Styles {
	return Styles{
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1),
		Title:        lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Subtitle:     lipgloss.NewStyle().Foreground(colorMuted),
		Chevron:      lipgloss.NewStyle().Foreground(colorPrimary),
		Label:        lipgloss.NewStyle().Foreground(colorMuted),
		FocusedLabel: lipgloss.NewStyle().Bold(true),
		Tile: lipgloss.NewStyle().
			Foreground(colorTileFg).
			Background(colorTile).
			Padding(0, 1).
			MarginRight(1),
		SelectedTile: lipgloss.NewStyle().
			Foreground(colorTile).
			Background(colorTileFg).
			Padding(0, 1).
			MarginRight(1),
		Section: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(colorMuted),
		Notice:  lipgloss.NewStyle().Foreground(colorError).Italic(true),
		Error:   lipgloss.NewStyle().Foreground(colorError).Bold(true),
		Success: lipgloss.NewStyle().Foreground(colorSuccess).Bold(true),
		Help:    lipgloss.NewStyle().Foreground(colorMuted),
	}
}
