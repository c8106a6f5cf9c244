package home

import (
	"charm.land/lipgloss/v2"

	"github.com/rlpro/rlpro/internal/ui/theme"
)

const bannerArt = `██████╗ ██╗     ██████╗ ██████╗  ██████╗
██╔══██╗██║     ██╔══██╗██╔══██╗██╔═══██╗
██████╔╝██║     ██████╔╝██████╔╝██║   ██║
██╔══██╗██║     ██╔═══╝ ██╔══██╗██║   ██║
██║  ██║███████╗██║     ██║  ██║╚██████╔╝
╚═╝  ╚═╝╚══════╝╚═╝     ╚═╝  ╚═╝ ╚═════╝`

const bannerCompact = "R L P R O"

// renderBanner returns the banner styled in the primary color. Uses a
// compact fallback when the art does not fit.
func renderBanner(width int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if compact || width < 46 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
