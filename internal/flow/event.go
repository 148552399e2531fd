package flow

// EventKind identifies a visible transition of the demo.
type EventKind string

const (
	EventSubmitted       EventKind = "submitted"
	EventGenerateStarted EventKind = "generate_started"
	EventCodeRevealed    EventKind = "code_revealed"
	EventContractReady   EventKind = "contract_ready"
	EventSessionCreated  EventKind = "session_created"
	EventDeployStarted   EventKind = "deploy_started"
	EventDeployStatus    EventKind = "deploy_status"
	EventDeployed        EventKind = "deployed"
	EventReset           EventKind = "reset"
)

// Event is emitted synchronously to observers after the transition applied.
// For EventReset, Step is the step the run was in before the reset.
type Event struct {
	Kind   EventKind
	RunID  string
	Step   Step
	Detail string
}

// Observer receives controller events. Implementations must not call back
// into the controller.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe calls f(ev).
func (f ObserverFunc) Observe(ev Event) { f(ev) }
