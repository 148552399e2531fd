// Package toaster provides the notification toast shown in the top-right
// corner. A toast slides in, stays for a while, slides out and is removed.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/chaindemo/internal/ui/overlay"
	"github.com/zjrosen/chaindemo/internal/ui/styles"
)

// Toast lifetime.
const (
	EnterDelay   = 100 * time.Millisecond
	VisibleFor   = 3000 * time.Millisecond
	LeaveDur     = 300 * time.Millisecond
	leaveFrames  = 3
	defaultPadY  = 1
	defaultPadX  = 2
	enterShiftBy = 2
)

// Style determines the visual appearance of the toast.
type Style int

const (
	StyleSuccess Style = iota
	StyleError
	StyleInfo
	StyleWarn
)

// Phase is the stage of a toast's lifetime.
type Phase int

const (
	PhaseHidden Phase = iota
	PhaseEntering
	PhaseShown
	PhaseLeaving
)

// Model holds the toaster state. gen identifies the current toast so timers
// from a superseded toast are ignored.
type Model struct {
	message string
	style   Style
	phase   Phase
	frame   int
	gen     int
}

// PhaseMsg advances the toast with generation Gen.
type PhaseMsg struct {
	Gen   int
	Phase Phase
	Frame int
}

// New creates a hidden toaster.
func New() Model {
	return Model{}
}

// Show starts a new toast, replacing any current one, and returns the
// command that drives its lifetime.
func (m Model) Show(message string, style Style) (Model, tea.Cmd) {
	m.gen++
	m.message = message
	m.style = style
	m.phase = PhaseEntering
	m.frame = 0
	return m, after(EnterDelay, PhaseMsg{Gen: m.gen, Phase: PhaseShown})
}

// Hide removes the toast immediately.
func (m Model) Hide() Model {
	m.phase = PhaseHidden
	m.message = ""
	return m
}

// Update handles PhaseMsg; other messages are ignored.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	pm, ok := msg.(PhaseMsg)
	if !ok || pm.Gen != m.gen || m.phase == PhaseHidden {
		return m, nil
	}

	switch pm.Phase {
	case PhaseShown:
		m.phase = PhaseShown
		return m, after(VisibleFor, PhaseMsg{Gen: m.gen, Phase: PhaseLeaving})
	case PhaseLeaving:
		m.phase = PhaseLeaving
		m.frame = pm.Frame
		if pm.Frame+1 >= leaveFrames {
			return m, after(LeaveDur/leaveFrames, PhaseMsg{Gen: m.gen, Phase: PhaseHidden})
		}
		return m, after(LeaveDur/leaveFrames, PhaseMsg{Gen: m.gen, Phase: PhaseLeaving, Frame: pm.Frame + 1})
	case PhaseHidden:
		return m.Hide(), nil
	}
	return m, nil
}

// Visible reports whether a toast is on screen in any phase.
func (m Model) Visible() bool {
	return m.phase != PhaseHidden && m.message != ""
}

// Phase returns the current lifetime phase.
func (m Model) Phase() Phase {
	return m.phase
}

// Message returns the current toast text.
func (m Model) Message() string {
	return m.message
}

// View renders the toast box.
func (m Model) View() string {
	if !m.Visible() {
		return ""
	}

	style := lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Border(lipgloss.RoundedBorder())

	var content string
	switch m.style {
	case StyleError:
		style = style.BorderForeground(styles.ToastBorderErrorColor)
		content = "❌ " + m.message
	case StyleInfo:
		style = style.BorderForeground(styles.ToastBorderInfoColor)
		content = "ℹ️ " + m.message
	case StyleWarn:
		style = style.BorderForeground(styles.ToastBorderWarnColor)
		content = "⚠️ " + m.message
	default:
		style = style.BorderForeground(styles.ToastBorderSuccessColor)
		content = "✅ " + m.message
	}
	return style.Render(content)
}

// Overlay renders the toast on top of bg in the top-right corner. While
// entering or leaving it is shifted towards the right edge.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.Visible() {
		return bg
	}

	fg := m.View()
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.TopRight,
		PadX:     defaultPadX,
		PadY:     defaultPadY,
		ShiftX:   m.shift(lipgloss.Width(fg)),
	}, fg, bg)
}

func (m Model) shift(fgWidth int) int {
	switch m.phase {
	case PhaseEntering:
		return fgWidth / enterShiftBy
	case PhaseLeaving:
		return fgWidth * (m.frame + 1) / leaveFrames
	}
	return 0
}

func after(d time.Duration, msg PhaseMsg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}
