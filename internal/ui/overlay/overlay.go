// Package overlay draws one rendered block on top of another without
// clearing the screen. Toasts and the log overlay use it.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position specifies where to place the overlay content.
type Position int

const (
	Center Position = iota
	Top
	Bottom
	// TopRight anchors the overlay to the right edge, PadY rows down.
	TopRight
)

// Config controls overlay rendering.
type Config struct {
	Width    int
	Height   int
	Position Position
	// PadX is the gap from the right edge for TopRight.
	PadX int
	// PadY is the gap from the top or bottom edge.
	PadY int
	// ShiftX moves the overlay right, clipping what passes the edge.
	// Toasts use it to slide in and out.
	ShiftX int
}

// Place renders fg on top of bg. Both may contain ANSI styling; the
// foreground is clipped at the viewport's right edge.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	startX, startY := calculatePosition(cfg, lipgloss.Width(fg), len(fgLines))
	if startX >= cfg.Width && cfg.Width > 0 {
		return strings.Join(bgLines, "\n")
	}

	for i, fgLine := range fgLines {
		bgY := startY + i
		if bgY >= len(bgLines) {
			break
		}
		if cfg.Width > 0 {
			fgLine = ansi.Truncate(fgLine, cfg.Width-startX, "")
		}
		bgLines[bgY] = splice(bgLines[bgY], fgLine, startX)
	}

	return strings.Join(bgLines, "\n")
}

// splice replaces the cells of line starting at x with fg.
func splice(line, fg string, x int) string {
	left := ansi.Truncate(line, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}

	var right string
	end := x + ansi.StringWidth(fg)
	if end < ansi.StringWidth(line) {
		right = ansi.TruncateLeft(line, end, "")
	}
	return left + fg + right
}

func calculatePosition(cfg Config, fgWidth, fgHeight int) (x, y int) {
	switch cfg.Position {
	case Top:
		x = (cfg.Width - fgWidth) / 2
		y = cfg.PadY
	case Bottom:
		x = (cfg.Width - fgWidth) / 2
		y = cfg.Height - fgHeight - cfg.PadY
	case TopRight:
		x = cfg.Width - fgWidth - cfg.PadX
		y = cfg.PadY
	default:
		x = (cfg.Width - fgWidth) / 2
		y = (cfg.Height - fgHeight) / 2
	}

	x = max(x, 0) + cfg.ShiftX
	y = max(y, 0)
	return x, y
}
