package panes

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"

	"github.com/zjrosen/chaindemo/internal/flow"
)

// ScrollableConfig configures a bordered pane backed by a viewport.
type ScrollableConfig struct {
	// Viewport keeps scroll state between renders, so it must be a pointer.
	Viewport *viewport.Model

	Title      string
	RightTitle string
	BottomLeft string
	Style      flow.Style

	// Follow keeps the view pinned to the newest content while the user has
	// not scrolled up, like a chat transcript.
	Follow bool
}

// ScrollablePane sizes the viewport to fit inside the border, sets its
// content and renders it with a scroll indicator in the bottom-right.
// contentFn receives the inner width.
func ScrollablePane(width, height int, cfg ScrollableConfig, contentFn func(wrapWidth int) string) string {
	vpWidth := max(width-2, 1)
	vpHeight := max(height-2, 1)

	content := contentFn(vpWidth)

	// AtBottom must be read before SetContent, otherwise a user who scrolled
	// up gets yanked back down on every render.
	wasAtBottom := cfg.Viewport.AtBottom()

	cfg.Viewport.Width = vpWidth
	cfg.Viewport.Height = vpHeight
	cfg.Viewport.SetContent(content)

	if cfg.Follow && wasAtBottom {
		cfg.Viewport.GotoBottom()
	}

	return BorderedPane(BorderConfig{
		Content:     cfg.Viewport.View(),
		Width:       width,
		Height:      height,
		TopLeft:     cfg.Title,
		TopRight:    cfg.RightTitle,
		BottomLeft:  cfg.BottomLeft,
		BottomRight: ScrollIndicator(*cfg.Viewport),
		Style:       cfg.Style,
	})
}

// ScrollIndicator returns "↑NN%" when the viewport is scrolled away from the
// bottom and its content overflows, else "". Titles are plain text; the
// border applies the title style.
func ScrollIndicator(vp viewport.Model) string {
	if vp.TotalLineCount() <= vp.Height || vp.AtBottom() {
		return ""
	}
	return fmt.Sprintf("↑%.0f%%", vp.ScrollPercent()*100)
}
