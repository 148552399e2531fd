package app

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/chaindemo/internal/config"
	"github.com/zjrosen/chaindemo/internal/flags"
	"github.com/zjrosen/chaindemo/internal/flow"
	"github.com/zjrosen/chaindemo/internal/log"
	"github.com/zjrosen/chaindemo/internal/pubsub"
	"github.com/zjrosen/chaindemo/internal/ui/styles"
	"github.com/zjrosen/chaindemo/internal/ui/toaster"
	"github.com/zjrosen/chaindemo/internal/watcher"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
	zone.NewGlobal()
}

type fakeClipboard struct {
	mu     sync.Mutex
	copied []string
	err    error
}

func (c *fakeClipboard) Copy(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.copied = append(c.copied, text)
	return nil
}

func (c *fakeClipboard) last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.copied) == 0 {
		return ""
	}
	return c.copied[len(c.copied)-1]
}

type payloadObserver struct {
	mu      sync.Mutex
	events  []flow.Event
	payload flow.Payload
}

func (o *payloadObserver) Observe(ev flow.Event) {
	o.mu.Lock()
	o.events = append(o.events, ev)
	o.mu.Unlock()
}

func (o *payloadObserver) SetPayload(p flow.Payload) {
	o.mu.Lock()
	o.payload = p
	o.mu.Unlock()
}

func testConfig(flagsOn ...string) config.Config {
	cfg := config.Defaults()
	cfg.Demo.Speed = 100
	cfg.History.Enabled = false
	cfg.Flags = map[string]bool{}
	for _, f := range flagsOn {
		cfg.Flags[f] = true
	}
	return cfg
}

func newModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.Clipboard == nil {
		opts.Clipboard = &fakeClipboard{}
	}
	if opts.NewRunID == nil {
		opts.NewRunID = func() string { return "run-1" }
	}
	m := New(opts)
	t.Cleanup(func() { _ = m.Close() })
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 240, Height: 40})
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyCtrlX = tea.KeyMsg{Type: tea.KeyCtrlX}
)

// blur moves focus from the chat input to the board. Esc toggles focus, so
// it is only sent while the input has it.
func blur(t *testing.T, m Model) Model {
	t.Helper()
	if m.inputFocused {
		m, _ = send(t, m, keyEsc)
	}
	require.False(t, m.inputFocused)
	return m
}

// fire delivers a tick of the current epoch as if its delay had elapsed.
func fire(t *testing.T, m Model, phase flow.Phase, index int) Model {
	t.Helper()
	m, _ = send(t, m, tickMsg{tick: flow.Tick{Epoch: m.ctrl.Epoch(), Phase: phase, Index: index}})
	return m
}

func toContractReady(t *testing.T, m Model) Model {
	t.Helper()
	m = blur(t, m)
	m, cmd := send(t, m, runes("g"))
	require.NotNil(t, cmd)
	m = fire(t, m, flow.PhaseRevealCode, 0)
	m = fire(t, m, flow.PhaseRevealAlert, 0)
	m = fire(t, m, flow.PhaseSessionKey, 0)
	require.Equal(t, flow.StepContractReady, m.Session().Step)
	require.True(t, m.Session().SessionCreated)
	return m
}

func toDeployed(t *testing.T, m Model) Model {
	t.Helper()
	m = toContractReady(t, m)
	m, cmd := send(t, m, keySpace)
	require.NotNil(t, cmd)
	require.Equal(t, flow.StepDeploying, m.Session().Step)

	n := len(m.ctrl.Payload().DeployMessages())
	for i := 0; i <= n; i++ {
		m = fire(t, m, flow.PhaseDeployStatus, i)
	}
	m = fire(t, m, flow.PhaseResults, 0)
	require.Equal(t, flow.StepDeployed, m.Session().Step)
	return m
}

func TestNew_InitialState(t *testing.T) {
	m := newModel(t, Options{Config: testConfig()})

	require.True(t, m.Session().IsInitial())
	require.True(t, m.Board().MatchesInitial())
	require.True(t, m.inputFocused)
	require.Equal(t, flow.DefaultPayloadName, m.PayloadName())
	require.False(t, m.showTips)
}

func TestNew_UnknownPayloadFallsBack(t *testing.T) {
	cfg := testConfig()
	cfg.Demo.Payload = "mainnet"
	m := newModel(t, Options{Config: cfg})
	require.Equal(t, flow.DefaultPayloadName, m.PayloadName())
}

func TestSubmit_ShowsMessageAndSchedulesGenerate(t *testing.T) {
	m := newModel(t, Options{Config: testConfig()})

	m, _ = send(t, m, runes("a vault"))
	m, cmd := send(t, m, keyEnter)
	require.NotNil(t, cmd)

	require.True(t, m.Board().Visible(flow.RegionUserMessage))
	require.Equal(t, "a vault", m.Board().Text(flow.RegionUserMessage))
	require.False(t, m.Board().Visible(flow.RegionInputArea))
	require.False(t, m.inputFocused)
	require.Empty(t, m.input.Value())
	require.Equal(t, flow.StepIdle, m.Session().Step)

	m = fire(t, m, flow.PhaseStartGenerate, 0)
	require.Equal(t, flow.StepGenerating, m.Session().Step)
}

func TestSubmit_BlankIsIgnored(t *testing.T) {
	m := newModel(t, Options{Config: testConfig()})

	m, _ = send(t, m, runes("   "))
	m, cmd := send(t, m, keyEnter)
	require.Nil(t, cmd)
	require.True(t, m.Board().Visible(flow.RegionInputArea))
	require.True(t, m.inputFocused)
}

func TestShortcuts_IgnoredWhileTyping(t *testing.T) {
	m := newModel(t, Options{Config: testConfig()})

	m, _ = send(t, m, runes("g"))
	require.Equal(t, "g", m.input.Value())
	require.Equal(t, flow.StepIdle, m.Session().Step)
}

func TestFocus_TogglesBetweenInputAndBoard(t *testing.T) {
	m := newModel(t, Options{Config: testConfig()})

	m, _ = send(t, m, keyEsc)
	require.False(t, m.inputFocused)

	m, _ = send(t, m, keyEsc)
	require.True(t, m.inputFocused)
}

func TestGenerateAndDeploy(t *testing.T) {
	m := newModel(t, Options{Config: testConfig()})
	m = toContractReady(t, m)

	b := m.Board()
	require.True(t, b.Visible(flow.RegionGeneratedCode))
	require.True(t, b.Visible(flow.RegionProblemAlert))
	require.Equal(t, flow.LabelContractGenerated, b.Text(flow.RegionGenerateAction))
	require.Equal(t, flow.LabelDeploy, b.Text(flow.RegionDeployAction))
	require.Equal(t, flow.StyleHighlighted, b.Style(flow.RegionOnchainOSPanel))

	m = toDeployed(t, newModel(t, Options{Config: testConfig()}))
	p := flow.DefaultPayload()
	b = m.Board()
	require.Equal(t, p.ClassHash, b.Text(flow.RegionClassHash))
	require.Equal(t, p.ContractAddress, b.Text(flow.RegionContractLink))
	require.Equal(t, p.TxHash, b.Text(flow.RegionTxLink))
	require.Equal(t, p.GasUsed, b.Text(flow.RegionGasUsed))
	require.Equal(t, p.GasCost, b.Text(flow.RegionGasCost))
	require.Equal(t, flow.LabelDeployed, b.Text(flow.RegionDeployAction))

	view := ansiFree(m.View())
	require.Contains(t, view, p.TxHash)
	require.Contains(t, view, p.ContractAddress)
	require.Contains(t, view, flow.LabelDeployed)
}

func TestAdvance_NoOpBeforeSessionKey(t *testing.T) {
	m := newModel(t, Options{Config: testConfig()})
	m = blur(t, m)
	m, _ = send(t, m, keySpace)
	require.Equal(t, flow.StepGenerating, m.Session().Step)

	m = fire(t, m, flow.PhaseRevealCode, 0)
	m = fire(t, m, flow.PhaseRevealAlert, 0)

	m, cmd := send(t, m, keySpace)
	require.Nil(t, cmd)
	require.Equal(t, flow.StepContractReady, m.Session().Step)
}

func TestDeploy_NoOpBeforeGenerate(t *testing.T) {
	m := newModel(t, Options{Config: testConfig()})
	m = blur(t, m)

	m, cmd := send(t, m, runes("d"))
	require.Nil(t, cmd)
	require.True(t, m.Session().IsInitial())
}

func TestRestart_ResetsBoardAndShowsToast(t *testing.T) {
	m := newModel(t, Options{Config: testConfig()})
	m = toDeployed(t, m)

	m, cmd := send(t, m, runes("r"))
	require.NotNil(t, cmd)
	require.True(t, m.Session().IsInitial())
	require.True(t, m.Board().MatchesInitial())
	require.True(t, m.inputFocused)
	require.True(t, m.toaster.Visible())
	require.Equal(t, restartToast, m.toaster.Message())

	// A second restart changes nothing but the toast
	m = blur(t, m)
	m, _ = send(t, m, runes("r"))
	require.True(t, m.Board().MatchesInitial())
}

func TestRestart_DropsPendingTicks(t *testing.T) {
	m := newModel(t, Options{Config: testConfig()})
	m = blur(t, m)
	m, _ = send(t, m, runes("g"))
	require.Equal(t, flow.StepGenerating, m.Session().Step)
	stale := flow.Tick{Epoch: m.ctrl.Epoch(), Phase: flow.PhaseRevealCode}

	m = blur(t, m)
	m, _ = send(t, m, runes("r"))
	require.True(t, m.Session().IsInitial())
	require.Empty(t, m.input.Value())
	require.Greater(t, m.ctrl.Epoch(), stale.Epoch)

	m, cmd := send(t, m, tickMsg{tick: stale})
	require.Nil(t, cmd)
	require.True(t, m.Board().MatchesInitial())
	require.False(t, m.Board().Visible(flow.RegionGeneratedCode))
}

func TestRestart_LegacyResetKeepsPendingTicks(t *testing.T) {
	m := newModel(t, Options{Config: testConfig(flags.FlagLegacyReset)})
	m = blur(t, m)
	m, _ = send(t, m, runes("g"))
	require.Equal(t, flow.StepGenerating, m.Session().Step)
	stale := flow.Tick{Epoch: m.ctrl.Epoch(), Phase: flow.PhaseRevealCode}

	m = blur(t, m)
	m, _ = send(t, m, runes("r"))
	require.True(t, m.Session().IsInitial())
	require.Empty(t, m.input.Value())
	require.Equal(t, stale.Epoch, m.ctrl.Epoch())

	m, _ = send(t, m, tickMsg{tick: stale})
	require.True(t, m.Board().Visible(flow.RegionGeneratedCode))
	require.Equal(t, flow.StepIdle, m.Session().Step)
}

func TestCopyLink(t *testing.T) {
	clip := &fakeClipboard{}
	m := newModel(t, Options{Config: testConfig(), Clipboard: clip})

	m = blur(t, m)
	m, cmd := send(t, m, runes("c"))
	require.Nil(t, cmd, "links are hidden before deployment")
	require.Empty(t, clip.last())

	m = toDeployed(t, m)
	p := flow.DefaultPayload()

	m, cmd = send(t, m, runes("c"))
	require.NotNil(t, cmd)
	require.Equal(t, p.ContractURL, clip.last())
	require.Equal(t, "Opening Starkscan contract page...", m.toaster.Message())

	m, _ = send(t, m, runes("t"))
	require.Equal(t, p.TxURL, clip.last())
	require.Equal(t, "Opening Starkscan transaction page...", m.toaster.Message())
}

func TestCopyLink_ClipboardError(t *testing.T) {
	clip := &fakeClipboard{err: errors.New("no display")}
	m := toDeployed(t, newModel(t, Options{Config: testConfig(), Clipboard: clip}))

	m, _ = send(t, m, runes("t"))
	require.Contains(t, m.toaster.Message(), "Clipboard unavailable")
	require.Contains(t, m.toaster.Message(), flow.DefaultPayload().TxURL)
}

func TestCyclePayload_IdleAppliesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))

	obs := &payloadObserver{}
	m := newModel(t, Options{Config: testConfig(), ConfigPath: path, Observers: []flow.Observer{obs}})
	m = blur(t, m)

	m, cmd := send(t, m, runes("p"))
	require.NotNil(t, cmd)
	require.Equal(t, "sepolia", m.PayloadName())
	require.Equal(t, "sepolia", m.ctrl.Payload().Name)
	require.Equal(t, "sepolia", obs.payload.Name)
	require.Equal(t, "Network: Ethereum Sepolia", m.toaster.Message())

	saved, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "sepolia", saved.Demo.Payload)

	m, _ = send(t, m, runes("p"))
	require.Equal(t, "starknet", m.PayloadName())
}

func TestCyclePayload_MidRunWaitsForRestart(t *testing.T) {
	obs := &payloadObserver{}
	m := newModel(t, Options{Config: testConfig(), Observers: []flow.Observer{obs}})
	m = blur(t, m)
	m, _ = send(t, m, runes("g"))

	m, _ = send(t, m, runes("p"))
	require.Equal(t, "sepolia", m.PayloadName())
	require.Equal(t, "starknet", m.ctrl.Payload().Name)
	require.Equal(t, "Network: Ethereum Sepolia (after restart)", m.toaster.Message())

	m, _ = send(t, m, runes("r"))
	require.Equal(t, "sepolia", m.ctrl.Payload().Name)
	require.Equal(t, "sepolia", obs.payload.Name)
}

func TestReload_Error(t *testing.T) {
	m := newModel(t, Options{Config: testConfig()})

	m, cmd := send(t, m, pubsub.Event[watcher.Reload]{
		Type:    pubsub.UpdatedEvent,
		Payload: watcher.Reload{Err: errors.New("demo.speed must be positive")},
	})
	require.NotNil(t, cmd)
	require.Equal(t, "Config error: demo.speed must be positive", m.toaster.Message())
}

func TestReload_AppliesConfig(t *testing.T) {
	t.Cleanup(func() { _ = styles.ApplyTheme(styles.ThemeConfig{}) })

	m := newModel(t, Options{Config: testConfig()})

	cfg := testConfig()
	cfg.Demo.Payload = "sepolia"
	cfg.Demo.Prompt = "What should we build?"
	cfg.UI.MarkdownStyle = "light"
	cfg.Theme.Preset = "nord"

	m, _ = send(t, m, pubsub.Event[watcher.Reload]{
		Type:    pubsub.UpdatedEvent,
		Payload: watcher.Reload{Config: &cfg},
	})
	require.Equal(t, "sepolia", m.PayloadName())
	require.Equal(t, "What should we build?", m.input.Placeholder)
	require.Equal(t, "light", m.code.Style())

	m, _ = send(t, m, pubsub.Event[watcher.Reload]{
		Type:    pubsub.UpdatedEvent,
		Payload: watcher.Reload{Config: &cfg},
	})
	require.Equal(t, "Config reloaded", m.toaster.Message())
}

func TestReload_BadThemeKeepsRunning(t *testing.T) {
	t.Cleanup(func() { _ = styles.ApplyTheme(styles.ThemeConfig{}) })

	m := newModel(t, Options{Config: testConfig()})
	cfg := testConfig()
	cfg.Theme.Preset = "solarized"

	m, _ = send(t, m, pubsub.Event[watcher.Reload]{Payload: watcher.Reload{Config: &cfg}})
	require.True(t, strings.HasPrefix(m.toaster.Message(), "Theme error"))
	require.True(t, m.Session().IsInitial())
}

func TestTipsOverlay(t *testing.T) {
	m := newModel(t, Options{Config: testConfig()})
	m = blur(t, m)

	m, _ = send(t, m, runes("?"))
	require.True(t, m.showTips)
	require.Contains(t, ansiFree(m.View()), "Presenter tips")

	// Board keys are swallowed while tips are open
	m, _ = send(t, m, runes("g"))
	require.Equal(t, flow.StepIdle, m.Session().Step)

	m, _ = send(t, m, keyEsc)
	require.False(t, m.showTips)
}

func TestTipsOverlay_OpenOnStartup(t *testing.T) {
	m := newModel(t, Options{Config: testConfig(flags.FlagPresenterTips)})
	require.True(t, m.showTips)
}

func TestLogOverlay_DebugOnly(t *testing.T) {
	m := newModel(t, Options{Config: testConfig()})
	m, _ = send(t, m, keyCtrlX)
	require.False(t, m.logOverlay.Visible())

	m = newModel(t, Options{Config: testConfig(), Debug: true})
	m, _ = send(t, m, keyCtrlX)
	require.True(t, m.logOverlay.Visible())

	m, _ = send(t, m, log.LogEvent{Type: pubsub.CreatedEvent, Payload: "2026-03-01T10:00:00 [INFO] [flow] hello overlay"})
	require.Equal(t, 1, m.logOverlay.Len())
	require.Contains(t, ansiFree(m.View()), "hello overlay")

	m, _ = send(t, m, keyCtrlX)
	require.False(t, m.logOverlay.Visible())
}

func TestView_Sizes(t *testing.T) {
	m := New(Options{Config: testConfig(), Clipboard: &fakeClipboard{}})
	t.Cleanup(func() { _ = m.Close() })
	require.Equal(t, "Loading...", m.View())

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 40, Height: 10})
	require.Contains(t, m.View(), "Terminal too small")

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 240, Height: 40})
	view := ansiFree(m.View())
	require.Contains(t, view, "AI Assistant")
	require.Contains(t, view, "OnchainOS")
	require.Contains(t, view, "Deployment Results")
	require.Contains(t, view, flow.ResultsPlaceholder)
	require.Contains(t, view, flow.LabelGenerate)
}

func TestMouse_ClickGenerate(t *testing.T) {
	m := newModel(t, Options{Config: testConfig()})

	var z *zone.ZoneInfo
	for retries := 0; retries < 10; retries++ {
		_ = m.View()
		z = zone.Get(zoneGenerate)
		if z != nil && !z.IsZero() {
			break
		}
		// Zone registration happens on bubblezone's worker goroutine
		time.Sleep(time.Millisecond)
	}
	require.NotNil(t, z)
	require.False(t, z.IsZero())

	m, cmd := send(t, m, tea.MouseMsg{
		X:      z.StartX,
		Y:      z.StartY,
		Action: tea.MouseActionRelease,
		Button: tea.MouseButtonLeft,
	})
	require.NotNil(t, cmd)
	require.Equal(t, flow.StepGenerating, m.Session().Step)
}

func TestTeatest_FullRun(t *testing.T) {
	obs := &payloadObserver{}
	m := New(Options{Config: testConfig(), Clipboard: &fakeClipboard{}, Observers: []flow.Observer{obs}})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(240, 40))

	tm.Type("an escrow contract")
	tm.Send(keyEnter)

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte("Session key created"))
	}, teatest.WithDuration(5*time.Second))

	tm.Send(keySpace)

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte(flow.LabelDeployed))
	}, teatest.WithDuration(5*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	final := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second)).(Model)

	require.Equal(t, flow.StepDeployed, final.Session().Step)
	require.Equal(t, "an escrow contract", final.Board().Text(flow.RegionUserMessage))
	require.Equal(t, flow.DefaultPayload().TxHash, final.Board().Text(flow.RegionTxLink))

	obs.mu.Lock()
	defer obs.mu.Unlock()
	require.Equal(t, flow.EventSubmitted, obs.events[0].Kind)
	require.Equal(t, flow.EventDeployed, obs.events[len(obs.events)-1].Kind)
}

func TestTeatest_Autoplay(t *testing.T) {
	m := New(Options{Config: testConfig(flags.FlagAutoplay), Clipboard: &fakeClipboard{}})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(240, 40))

	teatest.WaitFor(t, tm.Output(), func(bts []byte) bool {
		return bytes.Contains(bts, []byte(flow.LabelDeployed))
	}, teatest.WithDuration(5*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	final := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second)).(Model)
	require.True(t, final.Session().Deployed)
}

func TestToastPhaseMessagesRoute(t *testing.T) {
	m := newModel(t, Options{Config: testConfig()})
	m = blur(t, m)
	m, _ = send(t, m, runes("r"))
	require.Equal(t, toaster.PhaseEntering, m.toaster.Phase())

	m, _ = send(t, m, toaster.PhaseMsg{Gen: 1, Phase: toaster.PhaseShown})
	require.Equal(t, toaster.PhaseShown, m.toaster.Phase())
}

func ansiFree(s string) string {
	return ansi.Strip(s)
}
