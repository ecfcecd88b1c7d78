package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Header is the top status bar: project, snapshot source and time of the last update.
type Header struct {
	project    string
	source     string
	lastUpdate time.Time
	styles     *StyleConfig
}

// NewHeader creates a new header with default styles
func NewHeader(project, source string) Header {
	return NewHeaderWithStyles(project, source, DefaultStyles())
}

// NewHeaderWithStyles creates a new header with custom styles
func NewHeaderWithStyles(project, source string, styles *StyleConfig) Header {
	return Header{
		project: project,
		source:  source,
		styles:  styles,
	}
}

// SetLastUpdate records when the shown snapshot arrived.
func (h *Header) SetLastUpdate(t time.Time) {
	h.lastUpdate = t
}

// Render renders the header
func (h Header) Render(width int) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(h.styles.PrimaryBlue).
		Bold(true).
		Padding(0, 2)
	title := titleStyle.Render(fmt.Sprintf("buildbeacon · %s", h.project))

	infoStyle := lipgloss.NewStyle().
		Foreground(h.styles.TextSecondary).
		Padding(0, 2)
	updated := "waiting for first snapshot"
	if !h.lastUpdate.IsZero() {
		updated = "updated " + h.lastUpdate.Format("15:04:05")
	}
	info := infoStyle.Render(fmt.Sprintf("source: %s  %s", h.source, updated))

	content := lipgloss.JoinHorizontal(lipgloss.Left, title, info)
	if width > 0 {
		content = TruncateStyled(content, width)
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(h.styles.BorderColor)
	if width > 0 {
		headerStyle = headerStyle.Width(width)
	}

	return headerStyle.Render(content)
}
