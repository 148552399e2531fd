package surface

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/chaindemo/internal/flow"
	"github.com/zjrosen/chaindemo/internal/ui/styles"
)

// Narrator is a flow.Surface that prints one line per visible change.
// It tracks state in an embedded Board so repeated writes of the same value
// stay quiet.
type Narrator struct {
	mu    sync.Mutex
	out   io.Writer
	board *Board
	quiet bool
}

var _ flow.Surface = (*Narrator)(nil)

// NewNarrator creates a narrator writing to out.
func NewNarrator(out io.Writer) *Narrator {
	return &Narrator{out: out, board: NewBoard()}
}

// SetQuiet suppresses output, e.g. while the initial layout is applied.
func (n *Narrator) SetQuiet(quiet bool) {
	n.mu.Lock()
	n.quiet = quiet
	n.mu.Unlock()
}

// Board returns the tracked region state.
func (n *Narrator) Board() *Board { return n.board }

var (
	shownStyle  = lipgloss.NewStyle().Foreground(styles.StatusSuccessColor)
	hiddenStyle = lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	textStyle   = lipgloss.NewStyle().Foreground(styles.TextPrimaryColor)
	regionStyle = lipgloss.NewStyle().Foreground(styles.HighlightColor).Bold(true)
)

// SetVisible implements flow.Surface.
func (n *Narrator) SetVisible(r flow.Region, visible bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.board.Visible(r) == visible {
		return
	}
	n.board.SetVisible(r, visible)
	if visible {
		n.printf("%s %s", shownStyle.Render("+"), regionStyle.Render(string(r)))
	} else {
		n.printf("%s %s", hiddenStyle.Render("-"), hiddenStyle.Render(string(r)))
	}
}

// SetText implements flow.Surface.
func (n *Narrator) SetText(r flow.Region, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.board.Text(r) == text {
		return
	}
	n.board.SetText(r, text)
	if text != "" {
		n.printf("%s %s: %s", textStyle.Render("~"), regionStyle.Render(string(r)), textStyle.Render(text))
	}
}

// SetStyle implements flow.Surface.
func (n *Narrator) SetStyle(r flow.Region, style flow.Style) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.board.Style(r) == style {
		return
	}
	n.board.SetStyle(r, style)
	n.printf("%s %s is %s", textStyle.Render("*"), regionStyle.Render(string(r)), style)
}

func (n *Narrator) printf(format string, args ...any) {
	if n.quiet {
		return
	}
	_, _ = fmt.Fprintf(n.out, format+"\n", args...)
}
