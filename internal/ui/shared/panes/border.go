// Package panes renders the titled, bordered panels of the demo board.
package panes

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/zjrosen/chaindemo/internal/flow"
	"github.com/zjrosen/chaindemo/internal/ui/styles"
)

// Border characters (rounded)
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// BorderConfig configures a bordered panel.
type BorderConfig struct {
	Content string
	Width   int // including borders
	Height  int // including borders

	// Titles are plain text; they are measured with runewidth.
	TopLeft     string
	TopRight    string
	BottomLeft  string
	BottomRight string

	// Style picks the border color: normal panels use the default border,
	// highlighted and success panels light up.
	Style       flow.Style
	TitleColor  lipgloss.TerminalColor
	BorderColor lipgloss.TerminalColor // overrides Style when set

	// Wrap word-wraps plain content to the inner width before sizing.
	Wrap bool
}

// StyleColor returns the border color for a region style.
func StyleColor(s flow.Style) lipgloss.TerminalColor {
	switch s {
	case flow.StyleHighlighted:
		return styles.HighlightColor
	case flow.StyleSuccess:
		return styles.StatusSuccessColor
	case flow.StyleDisabled:
		return styles.TextMutedColor
	default:
		return styles.BorderDefaultColor
	}
}

// BorderedPane renders content inside a rounded border with titles
// embedded in the top and bottom edges.
func BorderedPane(cfg BorderConfig) string {
	borderColor := cfg.BorderColor
	if borderColor == nil {
		borderColor = StyleColor(cfg.Style)
	}
	titleColor := cfg.TitleColor
	if titleColor == nil {
		titleColor = borderColor
	}

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(titleColor).Bold(true)

	innerWidth := max(cfg.Width-2, 1)
	contentHeight := max(cfg.Height-2, 1)

	content := cfg.Content
	if cfg.Wrap {
		content = WrapText(content, innerWidth)
	}
	constrained := lipgloss.NewStyle().
		Width(innerWidth).
		MaxWidth(innerWidth).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	lines := strings.Split(constrained, "\n")
	side := borderStyle.Render(borderVertical)

	var b strings.Builder
	b.WriteString(buildEdge(borderTopLeft, borderTopRight, cfg.TopLeft, cfg.TopRight, innerWidth, borderStyle, titleStyle))
	for i := range contentHeight {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		if w := lipgloss.Width(line); w < innerWidth {
			line += strings.Repeat(" ", innerWidth-w)
		}
		b.WriteString("\n" + side + line + side)
	}
	b.WriteString("\n")
	b.WriteString(buildEdge(borderBottomLeft, borderBottomRight, cfg.BottomLeft, cfg.BottomRight, innerWidth, borderStyle, titleStyle))
	return b.String()
}

// WrapText word-wraps s to width and hard-wraps words longer than width,
// such as 66-character hashes.
func WrapText(s string, width int) string {
	if width < 1 {
		return s
	}
	return wrap.String(wordwrap.String(s, width), width)
}

// buildEdge draws one horizontal edge: ╭─ Left ──────── Right ─╮.
// When both titles do not fit the right one is dropped; a lone title is
// truncated.
func buildEdge(leftCorner, rightCorner, leftTitle, rightTitle string, innerWidth int, borderStyle, titleStyle lipgloss.Style) string {
	plain := func() string {
		return borderStyle.Render(leftCorner + strings.Repeat(borderHorizontal, innerWidth) + rightCorner)
	}

	// Each title costs its width plus "─ " and " " of framing.
	const frame = 3
	avail := innerWidth - 1
	if (leftTitle == "" && rightTitle == "") || avail-frame < 4 {
		return plain()
	}
	if rightTitle != "" && leftTitle != "" && runewidth.StringWidth(leftTitle)+runewidth.StringWidth(rightTitle)+2*frame > avail {
		rightTitle = ""
	}
	if leftTitle != "" {
		leftTitle = runewidth.Truncate(leftTitle, avail-frame, "...")
	} else {
		rightTitle = runewidth.Truncate(rightTitle, avail-frame, "...")
	}

	used := 0
	var b strings.Builder
	b.WriteString(borderStyle.Render(leftCorner))
	if leftTitle != "" {
		b.WriteString(borderStyle.Render(borderHorizontal + " "))
		b.WriteString(titleStyle.Render(leftTitle))
		b.WriteString(borderStyle.Render(" "))
		used += runewidth.StringWidth(leftTitle) + frame
	}
	rightWidth := 0
	if rightTitle != "" {
		rightWidth = runewidth.StringWidth(rightTitle) + frame
	}
	b.WriteString(borderStyle.Render(strings.Repeat(borderHorizontal, max(innerWidth-used-rightWidth, 0))))
	if rightTitle != "" {
		b.WriteString(borderStyle.Render(" "))
		b.WriteString(titleStyle.Render(rightTitle))
		b.WriteString(borderStyle.Render(" " + borderHorizontal))
	}
	b.WriteString(borderStyle.Render(rightCorner))
	return b.String()
}
