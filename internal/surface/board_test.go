package surface

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/chaindemo/internal/flow"
)

func TestBoard_UnknownRegionIsHidden(t *testing.T) {
	b := NewBoard()
	require.Equal(t, flow.RegionState{}, b.State(flow.RegionTxLink))
	require.False(t, b.MatchesInitial())
}

func TestBoard_Setters(t *testing.T) {
	b := NewBoard()
	b.SetVisible(flow.RegionTxLink, true)
	b.SetText(flow.RegionTxLink, "0xabc")
	b.SetStyle(flow.RegionTxLink, flow.StyleSuccess)

	require.Equal(t, flow.RegionState{Visible: true, Text: "0xabc", Style: flow.StyleSuccess}, b.State(flow.RegionTxLink))
	require.True(t, b.Visible(flow.RegionTxLink))
	require.Equal(t, "0xabc", b.Text(flow.RegionTxLink))
	require.Equal(t, flow.StyleSuccess, b.Style(flow.RegionTxLink))
}

func TestBoard_SnapshotIsACopy(t *testing.T) {
	b := NewBoard()
	b.SetText(flow.RegionProcessText, "one")

	snap := b.Snapshot()
	b.SetText(flow.RegionProcessText, "two")
	require.Equal(t, "one", snap[flow.RegionProcessText].Text)
}

func TestBoard_MatchesInitialAfterController(t *testing.T) {
	b := NewBoard()
	c := flow.New(b, flow.DefaultConfig())
	require.True(t, b.MatchesInitial())

	_, _ = c.RequestGenerate()
	require.False(t, b.MatchesInitial())

	c.Reset()
	require.True(t, b.MatchesInitial())
}

func TestBoard_ConcurrentAccess(t *testing.T) {
	b := NewBoard()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				b.SetVisible(flow.RegionProcessing, j%2 == 0)
				_ = b.Snapshot()
			}
		}()
	}
	wg.Wait()
}
