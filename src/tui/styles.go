package tui

import "github.com/charmbracelet/lipgloss"

// StyleConfig holds the palette of the preview screen.
type StyleConfig struct {
	PrimaryBlue    lipgloss.Color
	DarkBackground lipgloss.Color
	CardBackground lipgloss.Color
	TextPrimary    lipgloss.Color
	TextSecondary  lipgloss.Color
	BorderColor    lipgloss.Color

	// Machine and build states
	Online  lipgloss.Color
	Offline lipgloss.Color
	Busy    lipgloss.Color
	Failure lipgloss.Color
	Success lipgloss.Color
	Other   lipgloss.Color
}

// DefaultStyles returns the default color palette
func DefaultStyles() *StyleConfig {
	return &StyleConfig{
		PrimaryBlue:    lipgloss.Color("#8AB4F8"),
		DarkBackground: lipgloss.Color("#1E1E1E"),
		CardBackground: lipgloss.Color("#2D2D2D"),
		TextPrimary:    lipgloss.Color("#E8EAED"),
		TextSecondary:  lipgloss.Color("#9AA0A6"),
		BorderColor:    lipgloss.Color("#5F6368"),
		Online:         lipgloss.Color("#34A853"),
		Offline:        lipgloss.Color("#5F6368"),
		Busy:           lipgloss.Color("#FBBC04"),
		Failure:        lipgloss.Color("#EA4335"),
		Success:        lipgloss.Color("#34A853"),
		Other:          lipgloss.Color("#A142F4"),
	}
}

// TitleStyle returns a title lipgloss style using this config
func (s *StyleConfig) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.PrimaryBlue).
		Bold(true).
		Padding(0, 1)
}

// HelpStyle returns a help text lipgloss style using this config
func (s *StyleConfig) HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(s.TextSecondary).
		Padding(0, 2)
}

// CardStyle returns the bordered box of one machine or build, with the border
// colored by state.
func (s *StyleConfig) CardStyle(accent lipgloss.Color, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Foreground(s.TextPrimary).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent)
}

// LabelStyle returns the dimmed style of field names inside cards.
func (s *StyleConfig) LabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.TextSecondary)
}

// ErrorStyle returns the style of the last-error line.
func (s *StyleConfig) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(s.Failure).Padding(0, 2)
}
