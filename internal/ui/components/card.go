package components

import (
	"charm.land/lipgloss/v2"

	"github.com/carhythm/carhythm/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for card sections
// so stacked boxes visually align.
func ContentWidth(frameWidth int) int {
	// Leave room for outer border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// SceneCard wraps a scene narrative in a rounded-border card at the
// given content width.
func SceneCard(title, narrative string, cw int) string {
	var content string
	if title != "" {
		content = lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Bold(true).
			Render(title) + "\n\n"
	}
	content += lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(cw - 6).
		Render(narrative)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(1, 2).
		Render(content)
}

// PanelCard wraps arbitrary content in a rounded-border card, centered.
func PanelCard(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}
