// Package surface contains flow.Surface implementations: an in-memory Board
// that the TUI renders from, and a Narrator that reports changes as text.
package surface

import (
	"maps"
	"sync"

	"github.com/zjrosen/chaindemo/internal/flow"
)

// Board keeps the current state of every region in memory.
type Board struct {
	mu      sync.RWMutex
	regions map[flow.Region]flow.RegionState
}

var _ flow.Surface = (*Board)(nil)

// NewBoard returns an empty board. A flow.Controller fills it with the
// initial layout when created.
func NewBoard() *Board {
	return &Board{regions: make(map[flow.Region]flow.RegionState)}
}

// SetVisible implements flow.Surface.
func (b *Board) SetVisible(r flow.Region, visible bool) {
	b.update(r, func(st *flow.RegionState) { st.Visible = visible })
}

// SetText implements flow.Surface.
func (b *Board) SetText(r flow.Region, text string) {
	b.update(r, func(st *flow.RegionState) { st.Text = text })
}

// SetStyle implements flow.Surface.
func (b *Board) SetStyle(r flow.Region, style flow.Style) {
	b.update(r, func(st *flow.RegionState) { st.Style = style })
}

func (b *Board) update(r flow.Region, fn func(*flow.RegionState)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st := b.regions[r]
	fn(&st)
	b.regions[r] = st
}

// State returns the state of r. Unknown regions are hidden and empty.
func (b *Board) State(r flow.Region) flow.RegionState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.regions[r]
}

// Visible reports whether r is shown.
func (b *Board) Visible(r flow.Region) bool { return b.State(r).Visible }

// Text returns the text content of r.
func (b *Board) Text(r flow.Region) string { return b.State(r).Text }

// Style returns the style of r.
func (b *Board) Style(r flow.Region) flow.Style { return b.State(r).Style }

// Snapshot returns a copy of all region states.
func (b *Board) Snapshot() map[flow.Region]flow.RegionState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[flow.Region]flow.RegionState, len(b.regions))
	maps.Copy(out, b.regions)
	return out
}

// MatchesInitial reports whether every region is in its initial state.
// Regions never written count as their zero state.
func (b *Board) MatchesInitial() bool {
	initial := flow.InitialLayout()
	for _, r := range flow.Regions() {
		if b.State(r) != initial[r] {
			return false
		}
	}
	return true
}
