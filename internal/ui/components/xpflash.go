package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/carhythm/carhythm/internal/ui/theme"
)

// XPFlash is the transient reward notice shown after a successful
// answer submission.
type XPFlash struct {
	XPGained int
	Badges   []string
	Visible  bool
}

// ShowXPFlash returns a visible flash for the given reward.
func ShowXPFlash(xpGained int, badges []string) XPFlash {
	return XPFlash{XPGained: xpGained, Badges: badges, Visible: true}
}

// View renders the flash, or nothing when hidden.
func (f XPFlash) View(width int) string {
	if !f.Visible {
		return ""
	}

	var parts []string
	parts = append(parts, lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true).
		Render(fmt.Sprintf("+%d XP ✦", f.XPGained)))

	for _, b := range f.Badges {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Render("★ "+b))
	}

	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(strings.Join(parts, "   "))
}
