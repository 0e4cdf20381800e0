// Package header renders the one-line branding bar at the top of the screen.
package header

import (
	"strings"

	"researchmate/pkg/ui/styles"
	"researchmate/pkg/version"

	"github.com/charmbracelet/x/ansi"
)

// Title is the product name shown on the left.
const Title = "◆ ResearchMate AI"

// Render returns the header exactly width cells wide. The version is
// dropped before the title is cut.
func Render(width int) string {
	if width <= 0 {
		return ""
	}

	title := Title
	right := "v" + strings.TrimPrefix(version.Version, "v")

	inner := width - 2
	if inner <= 0 {
		return strings.Repeat(" ", width)
	}

	gap := inner - ansi.StringWidth(title) - ansi.StringWidth(right)
	var content string
	if gap >= 2 {
		content = title + strings.Repeat(" ", gap) + right
	} else {
		content = ansi.Truncate(title, inner, "")
		content += strings.Repeat(" ", inner-ansi.StringWidth(content))
	}
	return styles.HeaderStyle.Render(content)
}
