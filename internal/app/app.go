// Package app contains the root application model.
package app

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/chaindemo/internal/cachemanager"
	"github.com/zjrosen/chaindemo/internal/config"
	"github.com/zjrosen/chaindemo/internal/flags"
	"github.com/zjrosen/chaindemo/internal/flow"
	"github.com/zjrosen/chaindemo/internal/keys"
	"github.com/zjrosen/chaindemo/internal/log"
	"github.com/zjrosen/chaindemo/internal/pubsub"
	"github.com/zjrosen/chaindemo/internal/surface"
	"github.com/zjrosen/chaindemo/internal/ui/codeview"
	"github.com/zjrosen/chaindemo/internal/ui/shared/logoverlay"
	"github.com/zjrosen/chaindemo/internal/ui/styles"
	"github.com/zjrosen/chaindemo/internal/ui/toaster"
	"github.com/zjrosen/chaindemo/internal/watcher"
)

// AutoplayPause is how long autoplay shows the results before restarting.
const AutoplayPause = 5 * time.Second

// Options configures the root model.
type Options struct {
	Config config.Config
	// ConfigPath is where payload switches are persisted. Empty disables it.
	ConfigPath string
	Debug      bool

	// Observers receive every flow event. Observers with a
	// SetPayload(flow.Payload) method are told about payload switches.
	Observers []flow.Observer

	// Watcher delivers config reloads. Optional.
	Watcher *watcher.Watcher

	// Optional overrides, mostly for tests.
	Clipboard Clipboard
	CodeCache cachemanager.CacheManager[codeview.Key, string]
	NewRunID  func() string
}

type payloadSetter interface {
	SetPayload(flow.Payload)
}

// tickMsg delivers a flow tick whose delay has elapsed.
type tickMsg struct {
	tick flow.Tick
}

// autoplayRestartMsg restarts an autoplayed run that is still showing the
// results of epoch.
type autoplayRestartMsg struct {
	epoch uint64
}

// Model is the root application state.
type Model struct {
	ctrl  *flow.Controller
	board *surface.Board
	flags *flags.Registry

	cfg        config.Config
	configPath string
	payload    string // selected preset, may be pending until reset
	observers  []flow.Observer
	clipboard  Clipboard

	input        textinput.Model
	inputFocused bool
	spinner      spinner.Model
	chat         *viewport.Model
	code         *codeview.Renderer
	help         help.Model

	width  int
	height int

	showTips bool
	autoplay bool

	// Centralized toaster
	toaster toaster.Model

	debugMode   bool
	logOverlay  logoverlay.Model
	logListener *log.LogListener

	// Config reloads (pubsub-based)
	reloads <-chan pubsub.Event[watcher.Reload]

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates the root model with the demo in its initial state.
func New(opts Options) Model {
	cfg := opts.Config
	registry := flags.New(cfg.Flags)

	payload, err := flow.LookupPayload(cfg.Demo.Payload)
	if err != nil {
		log.ErrorErr(log.CatConfig, "Unknown payload preset, using default", err)
		payload = flow.DefaultPayload()
	}

	board := surface.NewBoard()
	ctrl := flow.New(board, flow.Config{
		Payload:           payload,
		Timing:            cfg.Demo.Timing(),
		KeepTimersOnReset: registry.Enabled(flags.FlagLegacyReset),
		Observers:         opts.Observers,
		NewRunID:          opts.NewRunID,
	})

	cache := opts.CodeCache
	if cache == nil {
		cache = cachemanager.NewInMemoryCacheManager[codeview.Key, string](
			"code", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)
	}

	clip := opts.Clipboard
	if clip == nil {
		clip = SystemClipboard{}
	}

	input := textinput.New()
	input.Placeholder = cfg.Demo.Prompt
	input.Prompt = "› "
	input.CharLimit = 280
	input.PlaceholderStyle = input.PlaceholderStyle.Foreground(styles.TextPlaceholderColor)
	input.Focus()

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = styles.SpinnerStyle

	chat := viewport.New(0, 0)

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		ctrl:         ctrl,
		board:        board,
		flags:        registry,
		cfg:          cfg,
		configPath:   opts.ConfigPath,
		payload:      payload.Name,
		observers:    opts.Observers,
		clipboard:    clip,
		input:        input,
		inputFocused: true,
		spinner:      spin,
		chat:         &chat,
		code:         codeview.New(cache, cfg.UI.MarkdownStyle),
		help:         help.New(),
		showTips:     cfg.UI.ShowTips || registry.Enabled(flags.FlagPresenterTips),
		autoplay:     registry.Enabled(flags.FlagAutoplay),
		toaster:      toaster.New(),
		debugMode:    opts.Debug,
		logOverlay:   logoverlay.New(),
		ctx:          ctx,
		cancel:       cancel,
	}

	if opts.Debug {
		m.logListener = log.NewListener(ctx)
	}
	if opts.Watcher != nil {
		m.reloads = opts.Watcher.Subscribe(ctx)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}

	if m.reloads != nil {
		cmds = append(cmds, pubsub.ListenCmd(m.ctx, m.reloads))
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.autoplay {
		cmds = append(cmds, func() tea.Msg { return autoplayRestartMsg{epoch: m.ctrl.Epoch()} })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(m.panelWidth()-6, 10)
		m.logOverlay.SetSize(msg.Width, msg.Height)
		return m, nil

	case tickMsg:
		var cmds []tea.Cmd
		if next, ok := m.ctrl.Fire(msg.tick); ok {
			cmds = append(cmds, schedule(next))
		}
		cmds = append(cmds, m.autoplayStep())
		return m, tea.Batch(cmds...)

	case autoplayRestartMsg:
		if !m.autoplay || msg.epoch != m.ctrl.Epoch() {
			return m, nil
		}
		if m.ctrl.Session().Step == flow.StepDeployed {
			m.reset()
		}
		if m.ctrl.Session().Step != flow.StepIdle {
			return m, nil
		}
		m.blurInput()
		return m, m.run(m.ctrl.RequestGenerate)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case toaster.PhaseMsg:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Update(msg)
		return m, cmd

	case log.LogEvent:
		m.logOverlay.Append(msg.Payload)
		return m, m.logListener.Listen()

	case pubsub.Event[watcher.Reload]:
		cmd := m.handleReload(msg.Payload)
		return m, tea.Batch(cmd, pubsub.ListenCmd(m.ctx, m.reloads))

	case logoverlay.CloseMsg:
		return m, nil

	case tea.MouseMsg:
		if m.logOverlay.Visible() || m.showTips {
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.inputFocused {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Demo.ForceQuit) {
		return m, tea.Quit
	}

	if m.debugMode && key.Matches(msg, keys.Demo.LogOverlay) {
		m.logOverlay.Toggle()
		return m, nil
	}

	// The log overlay takes precedence while visible
	if m.logOverlay.Visible() {
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd
	}

	if m.showTips {
		if key.Matches(msg, keys.Tips.Close) {
			m.showTips = false
		}
		return m, nil
	}

	if m.inputFocused {
		switch {
		case key.Matches(msg, keys.Demo.Submit):
			return m, m.submit()
		case key.Matches(msg, keys.Demo.Focus):
			m.blurInput()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Demo.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Demo.Focus):
		return m, m.focusInput()
	case key.Matches(msg, keys.Demo.Restart):
		return m, m.restart()
	case key.Matches(msg, keys.Demo.Advance):
		return m, m.run(m.ctrl.Advance)
	case key.Matches(msg, keys.Demo.Generate):
		return m, m.run(m.ctrl.RequestGenerate)
	case key.Matches(msg, keys.Demo.Deploy):
		return m, m.run(m.ctrl.RequestDeploy)
	case key.Matches(msg, keys.Demo.CopyContract):
		return m, m.copyLink(flow.RegionContractLink)
	case key.Matches(msg, keys.Demo.CopyTx):
		return m, m.copyLink(flow.RegionTxLink)
	case key.Matches(msg, keys.Demo.CyclePayload):
		return m, m.cyclePayload()
	case key.Matches(msg, keys.Demo.Tips):
		m.showTips = true
		return m, nil
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	hit := func(id string) bool {
		z := zone.Get(id)
		return z != nil && z.InBounds(msg)
	}

	switch {
	case hit(zoneGenerate):
		m.blurInput()
		return m, m.run(m.ctrl.RequestGenerate)
	case hit(zoneDeploy):
		return m, m.run(m.ctrl.RequestDeploy)
	case hit(zoneContractLink):
		return m, m.copyLink(flow.RegionContractLink)
	case hit(zoneTxLink):
		return m, m.copyLink(flow.RegionTxLink)
	case hit(zoneRestart):
		return m, m.restart()
	case hit(zoneInput):
		return m, m.focusInput()
	}
	return m, nil
}

// run performs a controller operation and schedules the tick it returns.
func (m *Model) run(op func() (flow.Tick, bool)) tea.Cmd {
	t, ok := op()
	if !ok {
		return nil
	}
	return schedule(t)
}

func schedule(t flow.Tick) tea.Cmd {
	return tea.Tick(t.Delay, func(time.Time) tea.Msg {
		return tickMsg{tick: t}
	})
}

func (m *Model) submit() tea.Cmd {
	t, ok := m.ctrl.Submit(m.input.Value())
	if !ok {
		return nil
	}
	m.input.Reset()
	m.blurInput()
	return schedule(t)
}

// autoplayStep deploys once the session key exists and schedules the
// restart once the results are shown.
func (m *Model) autoplayStep() tea.Cmd {
	if !m.autoplay {
		return nil
	}
	s := m.ctrl.Session()
	switch {
	case s.Step == flow.StepContractReady && s.SessionCreated:
		return m.run(m.ctrl.RequestDeploy)
	case s.Step == flow.StepDeployed:
		epoch := m.ctrl.Epoch()
		return tea.Tick(AutoplayPause, func(time.Time) tea.Msg {
			return autoplayRestartMsg{epoch: epoch}
		})
	}
	return nil
}

func (m *Model) restart() tea.Cmd {
	m.reset()
	cmds := []tea.Cmd{m.focusInput(), m.showToast(restartToast, toaster.StyleSuccess)}
	if m.autoplay {
		epoch := m.ctrl.Epoch()
		cmds = append(cmds, func() tea.Msg { return autoplayRestartMsg{epoch: epoch} })
	}
	return tea.Batch(cmds...)
}

func (m *Model) reset() {
	m.ctrl.Reset()
	m.input.Reset()
	m.chat.GotoTop()
	m.syncPayload()
	log.Info(log.CatUI, "Demo restarted", "payload", m.ctrl.Payload().Name)
}

func (m *Model) copyLink(r flow.Region) tea.Cmd {
	if !m.board.Visible(r) {
		return nil
	}
	p := m.ctrl.Payload()

	url, what := p.ContractURL, "contract"
	if r == flow.RegionTxLink {
		url, what = p.TxURL, "transaction"
	}

	if err := m.clipboard.Copy(url); err != nil {
		log.ErrorErr(log.CatUI, "Failed to copy link", err, "url", url)
		return m.showToast("Clipboard unavailable: "+url, toaster.StyleWarn)
	}
	log.Debug(log.CatUI, "Copied explorer link", "url", url)
	return m.showToast(explorerToast(p, what), toaster.StyleInfo)
}

// cyclePayload switches to the next preset. A run in progress keeps its
// payload until restarted.
func (m *Model) cyclePayload() tea.Cmd {
	names := flow.PayloadNames()
	i := slices.Index(names, m.payload)
	next := names[(i+1)%len(names)]

	cmd := m.selectPayload(next)
	if m.configPath != "" {
		if err := config.SavePayload(m.configPath, next); err != nil {
			log.ErrorErr(log.CatConfig, "Failed to save payload", err, "path", m.configPath)
			return m.showToast("Could not save payload: "+err.Error(), toaster.StyleError)
		}
	}
	return cmd
}

func (m *Model) selectPayload(name string) tea.Cmd {
	p, err := flow.LookupPayload(name)
	if err != nil {
		log.ErrorErr(log.CatConfig, "Unknown payload preset", err)
		return m.showToast(err.Error(), toaster.StyleError)
	}
	if name == m.payload {
		return nil
	}
	m.payload = name
	m.ctrl.SetPayload(p)
	m.syncPayload()

	msg := "Network: " + p.Network
	if m.ctrl.Payload().Name != name {
		msg += " (after restart)"
	}
	return m.showToast(msg, toaster.StyleInfo)
}

// syncPayload tells payload-aware observers which payload is in effect.
func (m *Model) syncPayload() {
	p := m.ctrl.Payload()
	for _, o := range m.observers {
		if s, ok := o.(payloadSetter); ok {
			s.SetPayload(p)
		}
	}
}

func (m *Model) handleReload(r watcher.Reload) tea.Cmd {
	if r.Err != nil {
		log.Warn(log.CatWatcher, "Ignoring invalid config", "error", r.Err)
		return m.showToast("Config error: "+r.Err.Error(), toaster.StyleError)
	}
	if r.Config == nil {
		return nil
	}
	cfg := *r.Config

	if err := styles.ApplyTheme(styles.ThemeConfig{
		Preset: cfg.Theme.Preset,
		Colors: cfg.Theme.FlattenedColors(),
	}); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to apply theme", err)
		return m.showToast("Theme error: "+err.Error(), toaster.StyleError)
	}
	m.spinner.Style = styles.SpinnerStyle
	m.input.PlaceholderStyle = m.input.PlaceholderStyle.Foreground(styles.TextPlaceholderColor)
	m.input.Placeholder = cfg.Demo.Prompt
	m.code.SetStyle(m.ctx, cfg.UI.MarkdownStyle)
	m.code.Invalidate(m.ctx)

	if cfg.Demo.Speed != m.cfg.Demo.Speed {
		log.Info(log.CatConfig, "Speed change applies on next launch", "speed", cfg.Demo.Speed)
	}
	m.cfg = cfg

	log.Info(log.CatConfig, "Config reloaded", "payload", cfg.Demo.Payload, "preset", cfg.Theme.Preset)
	if cmd := m.selectPayload(cfg.Demo.Payload); cmd != nil {
		return cmd
	}
	return m.showToast("Config reloaded", toaster.StyleSuccess)
}

func (m *Model) showToast(msg string, style toaster.Style) tea.Cmd {
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show(msg, style)
	return cmd
}

func (m *Model) focusInput() tea.Cmd {
	if !m.board.Visible(flow.RegionInputArea) {
		return nil
	}
	m.inputFocused = true
	return m.input.Focus()
}

func (m *Model) blurInput() {
	m.inputFocused = false
	m.input.Blur()
}

// Session returns the demo session state.
func (m Model) Session() flow.Session {
	return m.ctrl.Session()
}

// Board returns the region states behind the view.
func (m Model) Board() *surface.Board {
	return m.board
}

// PayloadName returns the selected payload preset.
func (m Model) PayloadName() string {
	return m.payload
}

// Close stops background listeners.
func (m *Model) Close() error {
	if m.cancel != nil {
		m.cancel()
	}
	return nil
}
