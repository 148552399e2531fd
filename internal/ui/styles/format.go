package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TruncateString truncates s to maxWidth cells, adding an ellipsis if needed.
func TruncateString(s string, maxWidth int) string {
	if maxWidth < 1 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return strings.Repeat(".", maxWidth)
	}

	result := ""
	for _, r := range s {
		test := result + string(r)
		if lipgloss.Width(test) > maxWidth-3 {
			break
		}
		result = test
	}
	return result + "..."
}

// ShortHash abbreviates a 0x-prefixed hash to its first and last six hex
// digits when it does not fit in maxWidth.
func ShortHash(hash string, maxWidth int) string {
	if lipgloss.Width(hash) <= maxWidth || len(hash) < 16 {
		return hash
	}
	return hash[:8] + "..." + hash[len(hash)-6:]
}
