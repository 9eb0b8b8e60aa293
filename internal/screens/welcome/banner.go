package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/carhythm/carhythm/internal/ui/theme"
)

const bannerArt = `
 ██████╗ █████╗ ██████╗ ██╗  ██╗██╗   ██╗████████╗██╗  ██╗███╗   ███╗
██╔════╝██╔══██╗██╔══██╗██║  ██║╚██╗ ██╔╝╚══██╔══╝██║  ██║████╗ ████║
██║     ███████║██████╔╝███████║ ╚████╔╝    ██║   ███████║██╔████╔██║
██║     ██╔══██║██╔══██╗██╔══██║  ╚██╔╝     ██║   ██╔══██║██║╚██╔╝██║
╚██████╗██║  ██║██║  ██║██║  ██║   ██║      ██║   ██║  ██║██║ ╚═╝ ██║
 ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝      ╚═╝   ╚═╝  ╚═╝╚═╝     ╚═╝`

const bannerCompact = "C A R H Y T H M"

// RenderBanner returns the CARHYTHM banner styled in the primary color.
// Uses a compact fallback for terminals narrower than the full art.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 76 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
