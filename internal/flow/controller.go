package flow

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/chaindemo/internal/log"
)

// Phase identifies what a Tick does when it fires.
type Phase int

const (
	PhaseStartGenerate Phase = iota + 1
	PhaseRevealCode
	PhaseRevealAlert
	PhaseSessionKey
	PhaseDeployStatus
	PhaseResults
)

func (p Phase) String() string {
	switch p {
	case PhaseStartGenerate:
		return "start_generate"
	case PhaseRevealCode:
		return "reveal_code"
	case PhaseRevealAlert:
		return "reveal_alert"
	case PhaseSessionKey:
		return "session_key"
	case PhaseDeployStatus:
		return "deploy_status"
	case PhaseResults:
		return "results"
	default:
		return "unknown"
	}
}

// Tick is a deferred step of the flow. The host waits Delay, then passes the
// tick back to Controller.Fire.
type Tick struct {
	Epoch uint64
	Phase Phase
	Delay time.Duration
	// Index is the status line a PhaseDeployStatus tick shows.
	Index int
}

// Config configures a Controller.
type Config struct {
	Payload Payload
	Timing  Timing

	// KeepTimersOnReset lets ticks issued before a Reset still apply after
	// it. Off by default; the legacy-reset flag turns it on.
	KeepTimersOnReset bool

	Observers []Observer

	// NewRunID generates run identifiers. Defaults to random UUIDs.
	NewRunID func() string
}

// DefaultConfig returns the live demo configuration.
func DefaultConfig() Config {
	return Config{
		Payload: DefaultPayload(),
		Timing:  DefaultTiming(),
	}
}

// Controller drives one demo session against a Surface.
// It is not safe for concurrent use; hosts serialise calls.
type Controller struct {
	surface   Surface
	timing    Timing
	keepTicks bool
	newRunID  func() string
	observers []Observer

	payload     Payload
	nextPayload *Payload
	messages    []string

	session   Session
	epoch     uint64
	submitted bool
	runID     string
}

// New creates a controller and renders the initial layout onto surface.
func New(surface Surface, cfg Config) *Controller {
	if cfg.Payload == (Payload{}) {
		cfg.Payload = DefaultPayload()
	}
	if cfg.Timing == (Timing{}) {
		cfg.Timing = DefaultTiming()
	}
	if cfg.NewRunID == nil {
		cfg.NewRunID = func() string { return uuid.New().String() }
	}

	c := &Controller{
		surface:   surface,
		timing:    cfg.Timing,
		keepTicks: cfg.KeepTimersOnReset,
		newRunID:  cfg.NewRunID,
		observers: append([]Observer(nil), cfg.Observers...),
		payload:   cfg.Payload,
	}
	applyLayout(surface, InitialLayout())
	return c
}

// AddObserver registers o for all subsequent events.
func (c *Controller) AddObserver(o Observer) {
	c.observers = append(c.observers, o)
}

// Session returns a copy of the current session state.
func (c *Controller) Session() Session { return c.session }

// Payload returns the payload the current run displays.
func (c *Controller) Payload() Payload { return c.payload }

// Timing returns the configured delays.
func (c *Controller) Timing() Timing { return c.timing }

// RunID returns the id of the run in progress, or "" when idle.
func (c *Controller) RunID() string { return c.runID }

// Epoch returns the current tick epoch. Reset advances it.
func (c *Controller) Epoch() uint64 { return c.epoch }

// SetPayload swaps the payload preset. While a run is in progress the swap
// waits for the next Reset so a run never mixes two payloads.
func (c *Controller) SetPayload(p Payload) {
	if c.session.Step == StepIdle && !c.submitted {
		c.payload = p
		c.nextPayload = nil
		return
	}
	c.nextPayload = &p
}

// Submit handles the chat entry. Blank text, a second submission or a run
// already under way are ignored. Generation starts after Timing.Submit.
func (c *Controller) Submit(text string) (Tick, bool) {
	text = strings.TrimSpace(text)
	if text == "" || c.submitted || c.session.Step != StepIdle {
		return Tick{}, false
	}
	c.submitted = true
	c.ensureRun()

	c.surface.SetText(RegionUserMessage, text)
	c.surface.SetVisible(RegionUserMessage, true)
	c.surface.SetVisible(RegionInputArea, false)
	c.surface.SetVisible(RegionGenerateAction, false)

	c.emit(EventSubmitted, text)
	return c.tick(PhaseStartGenerate, c.timing.Submit), true
}

// RequestGenerate starts contract generation. No-op unless idle.
func (c *Controller) RequestGenerate() (Tick, bool) {
	if c.session.Step != StepIdle {
		return Tick{}, false
	}
	c.ensureRun()
	c.session.Step = StepGenerating

	c.surface.SetText(RegionGenerateAction, LabelGenerating)
	c.surface.SetStyle(RegionGenerateAction, StyleDisabled)
	c.surface.SetVisible(RegionTypingIndicator, true)

	c.emit(EventGenerateStarted, "")
	return c.tick(PhaseRevealCode, c.timing.RevealCode), true
}

// RequestDeploy starts the scripted deployment. No-op unless the contract
// is ready.
func (c *Controller) RequestDeploy() (Tick, bool) {
	if c.session.Step != StepContractReady {
		return Tick{}, false
	}
	c.session.Step = StepDeploying
	c.messages = c.payload.DeployMessages()

	c.surface.SetText(RegionDeployAction, LabelDeploying)
	c.surface.SetStyle(RegionDeployAction, StyleDisabled)
	c.surface.SetVisible(RegionProcessing, true)

	c.emit(EventDeployStarted, c.payload.Network)
	t := c.tick(PhaseDeployStatus, c.timing.DeployInterval)
	t.Index = 0
	return t, true
}

// Advance performs whichever of generate or deploy is currently valid.
func (c *Controller) Advance() (Tick, bool) {
	s := c.session
	switch {
	case s.Step == StepIdle && !s.ContractGenerated:
		return c.RequestGenerate()
	case s.Step == StepContractReady && s.SessionCreated && !s.Deployed:
		return c.RequestDeploy()
	}
	return Tick{}, false
}

// Reset returns the session and every region to their initial state from
// any step. Pending ticks become stale unless KeepTimersOnReset is set.
func (c *Controller) Reset() {
	prev := c.session.Step
	runID := c.runID

	if !c.keepTicks {
		c.epoch++
	}
	c.session = Session{}
	c.submitted = false
	c.runID = ""
	c.messages = nil
	if c.nextPayload != nil {
		c.payload = *c.nextPayload
		c.nextPayload = nil
	}

	applyLayout(c.surface, InitialLayout())

	log.Debug(log.CatFlow, "Demo reset", "from", prev, "run", runID, "epoch", c.epoch)
	c.notify(Event{Kind: EventReset, RunID: runID, Step: prev})
}

// Fire applies a tick that has come due and returns the follow-up tick, if
// any. Ticks from an earlier epoch are dropped, as are ticks whose phase does
// not belong to the current step.
func (c *Controller) Fire(t Tick) (Tick, bool) {
	if t.Epoch != c.epoch {
		log.Debug(log.CatFlow, "Dropping stale tick", "phase", t.Phase, "tick_epoch", t.Epoch, "epoch", c.epoch)
		return Tick{}, false
	}
	if !c.keepTicks && !c.expects(t.Phase) {
		log.Debug(log.CatFlow, "Dropping out-of-step tick", "phase", t.Phase, "step", c.session.Step)
		return Tick{}, false
	}

	switch t.Phase {
	case PhaseStartGenerate:
		return c.RequestGenerate()

	case PhaseRevealCode:
		c.surface.SetVisible(RegionTypingIndicator, false)
		c.surface.SetVisible(RegionGeneratedCode, true)
		c.emit(EventCodeRevealed, "")
		return c.tick(PhaseRevealAlert, c.timing.RevealAlert), true

	case PhaseRevealAlert:
		c.surface.SetVisible(RegionProblemAlert, true)
		next := c.enablePanel()
		c.surface.SetText(RegionGenerateAction, LabelContractGenerated)
		c.session.Step = StepContractReady
		c.session.ContractGenerated = true
		c.emit(EventContractReady, "")
		return next, true

	case PhaseSessionKey:
		c.surface.SetVisible(RegionSessionSection, true)
		// A deploy started in the meantime owns the button label.
		if c.session.Step == StepContractReady {
			c.surface.SetStyle(RegionDeployAction, StyleNormal)
			c.surface.SetText(RegionDeployAction, LabelDeploy)
		}
		c.session.SessionCreated = true
		c.emit(EventSessionCreated, "")
		return Tick{}, false

	case PhaseDeployStatus:
		if t.Index < len(c.messages) {
			msg := c.messages[t.Index]
			c.surface.SetText(RegionProcessText, msg)
			c.emit(EventDeployStatus, msg)
			next := c.tick(PhaseDeployStatus, c.timing.DeployInterval)
			next.Index = t.Index + 1
			return next, true
		}
		return c.tick(PhaseResults, c.timing.Results), true

	case PhaseResults:
		c.showResults()
		c.session.Step = StepDeployed
		c.session.Deployed = true
		c.emit(EventDeployed, c.payload.TxHash)
		return Tick{}, false
	}

	log.Warn(log.CatFlow, "Unknown tick phase", "phase", int(t.Phase))
	return Tick{}, false
}

// expects reports whether a tick of phase p can come due at the current step.
// With KeepTimersOnReset ticks from before a reset run against an idle
// session, so the check is skipped.
func (c *Controller) expects(p Phase) bool {
	s := c.session
	switch p {
	case PhaseStartGenerate:
		return s.Step == StepIdle && c.submitted
	case PhaseRevealCode, PhaseRevealAlert:
		return s.Step == StepGenerating
	case PhaseSessionKey:
		return s.ContractGenerated && !s.SessionCreated
	case PhaseDeployStatus, PhaseResults:
		return s.Step == StepDeploying
	}
	return true
}

// enablePanel highlights the OnchainOS panel and schedules the session key.
func (c *Controller) enablePanel() Tick {
	c.surface.SetStyle(RegionOnchainOSPanel, StyleHighlighted)
	return c.tick(PhaseSessionKey, c.timing.SessionKey)
}

func (c *Controller) showResults() {
	p := c.payload

	c.surface.SetVisible(RegionProcessing, false)
	c.surface.SetStyle(RegionResultsPanel, StyleSuccess)
	c.surface.SetText(RegionResultsPlace, "")
	c.surface.SetVisible(RegionResultsPlace, false)
	c.surface.SetVisible(RegionSuccessResults, true)

	c.surface.SetText(RegionClassHash, p.ClassHash)
	c.surface.SetText(RegionContractLink, p.ContractAddress)
	c.surface.SetText(RegionTxLink, p.TxHash)
	c.surface.SetText(RegionGasUsed, p.GasUsed)
	c.surface.SetText(RegionGasCost, p.GasCost)
	for _, r := range []Region{RegionClassHash, RegionContractLink, RegionTxLink, RegionGasUsed, RegionGasCost} {
		c.surface.SetVisible(r, true)
	}

	c.surface.SetText(RegionDeployAction, LabelDeployed)
	c.surface.SetStyle(RegionDeployAction, StyleSuccess)
}

func (c *Controller) tick(p Phase, d time.Duration) Tick {
	return Tick{Epoch: c.epoch, Phase: p, Delay: d}
}

func (c *Controller) ensureRun() {
	if c.runID == "" {
		c.runID = c.newRunID()
	}
}

func (c *Controller) emit(kind EventKind, detail string) {
	log.Debug(log.CatFlow, "Flow event", "kind", kind, "step", c.session.Step, "run", c.runID)
	c.notify(Event{Kind: kind, RunID: c.runID, Step: c.session.Step, Detail: detail})
}

func (c *Controller) notify(ev Event) {
	for _, o := range c.observers {
		o.Observe(ev)
	}
}
