package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"buildbeacon-agent/src/contracts"
)

const (
	minCardWidth = 24
	maxCardWidth = 40
)

// cardWidth fits n cards side by side in width, within sane bounds.
func cardWidth(width, n int) int {
	if n <= 0 {
		return maxCardWidth
	}
	// 4 columns per card go to border and padding.
	w := width/n - 4
	if w < minCardWidth {
		return minCardWidth
	}
	if w > maxCardWidth {
		return maxCardWidth
	}
	return w
}

// MachineLines returns the text lines of one machine card, mirroring the device layout.
func MachineLines(n contracts.NodeStatus) []string {
	state := "offline"
	if n.IsOnline {
		state = "online"
	}
	lines := []string{fmt.Sprintf("%s  %s", n.Machine, state)}

	if n.Idle() {
		return append(lines, "idle")
	}

	lines = append(lines, n.Build)
	if n.Changelist != nil {
		lines = append(lines, fmt.Sprintf("CL %d", *n.Changelist))
	}
	if n.Step != nil && *n.Step != "" {
		lines = append(lines, "step "+*n.Step)
	}
	if n.Duration != nil {
		lines = append(lines, "running "+FormatSeconds(*n.Duration))
	}
	return lines
}

// BuildLines returns the text lines of a recent failure or success card.
func BuildLines(title string, b *contracts.InterestingBuild) []string {
	if b == nil {
		return []string{title, "none"}
	}
	return []string{
		fmt.Sprintf("%s  %s", title, b.Result),
		b.Build,
		fmt.Sprintf("CL %d", b.Changelist),
		FormatSeconds(b.Age) + " ago",
	}
}

func (s *StyleConfig) machineAccent(n contracts.NodeStatus) lipgloss.Color {
	switch {
	case !n.IsOnline:
		return s.Offline
	case n.Idle():
		return s.Online
	default:
		return s.Busy
	}
}

func (s *StyleConfig) resultAccent(b *contracts.InterestingBuild) lipgloss.Color {
	if b == nil {
		return s.BorderColor
	}
	switch b.Result {
	case contracts.ResultSuccess:
		return s.Success
	case contracts.ResultFailure:
		return s.Failure
	default:
		return s.Other
	}
}

func renderCard(style lipgloss.Style, lines []string, width int) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = Truncate(line, width-2, true)
	}
	return style.Render(strings.Join(out, "\n"))
}

// RenderSnapshot draws the machines row and the recent builds row.
func RenderSnapshot(snap *contracts.StateSnapshot, styles *StyleConfig, width int) string {
	if snap == nil {
		return styles.HelpStyle().Render("no snapshot yet")
	}

	cw := cardWidth(width, len(snap.Machines))
	machines := make([]string, 0, len(snap.Machines))
	for _, n := range snap.Machines {
		machines = append(machines, renderCard(styles.CardStyle(styles.machineAccent(n), cw), MachineLines(n), cw))
	}

	bw := cardWidth(width, 2)
	builds := []string{
		renderCard(styles.CardStyle(styles.resultAccent(snap.RecentFailure), bw), BuildLines("last failure", snap.RecentFailure), bw),
		renderCard(styles.CardStyle(styles.resultAccent(snap.RecentSuccess), bw), BuildLines("last success", snap.RecentSuccess), bw),
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, machines...),
		lipgloss.JoinHorizontal(lipgloss.Top, builds...),
	)
}
