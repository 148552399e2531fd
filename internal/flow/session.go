// Package flow implements the demo flow controller: a small forward-only
// state machine that sequences the "generate, secure, deploy" narrative and
// keeps a rendering surface in step with it.
//
// The controller owns no timers. Each operation hands back at most one Tick
// for its host to schedule; the host calls Fire when the delay has elapsed.
// Reset bumps an epoch so ticks issued before it are ignored.
package flow

// Step is the narrative stage of a demo run.
type Step int

const (
	StepIdle Step = iota
	StepGenerating
	StepContractReady
	StepDeploying
	StepDeployed
)

func (s Step) String() string {
	switch s {
	case StepIdle:
		return "idle"
	case StepGenerating:
		return "generating"
	case StepContractReady:
		return "contract_ready"
	case StepDeploying:
		return "deploying"
	case StepDeployed:
		return "deployed"
	default:
		return "unknown"
	}
}

// Session is the state of one demo run. Flags only go from false to true
// until the next reset.
type Session struct {
	Step              Step
	ContractGenerated bool
	SessionCreated    bool
	Deployed          bool
}

// IsInitial reports whether s is the freshly reset state.
func (s Session) IsInitial() bool {
	return s == Session{}
}
