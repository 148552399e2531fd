package flow

// Region names one independently rendered area of the demo.
type Region string

const (
	RegionUserMessage     Region = "user-message"
	RegionInputArea       Region = "input-area"
	RegionGenerateAction  Region = "generate-action"
	RegionTypingIndicator Region = "typing-indicator"
	RegionGeneratedCode   Region = "generated-code"
	RegionProblemAlert    Region = "problem-alert"
	RegionOnchainOSPanel  Region = "onchainos-panel"
	RegionSessionSection  Region = "session-section"
	RegionDeployAction    Region = "deploy-action"
	RegionProcessing      Region = "processing"
	RegionProcessText     Region = "process-text"
	RegionResultsPanel    Region = "results-panel"
	RegionResultsPlace    Region = "results-interface"
	RegionSuccessResults  Region = "success-results"
	RegionClassHash       Region = "class-hash-label"
	RegionContractLink    Region = "contract-link"
	RegionTxLink          Region = "tx-link"
	RegionGasUsed         Region = "gas-used-label"
	RegionGasCost         Region = "gas-cost-label"
)

// Style is the presentation state of a region. Buttons use Disabled for
// "not clickable"; panels use Highlighted and Success for their glow.
type Style int

const (
	StyleNormal Style = iota
	StyleDisabled
	StyleHighlighted
	StyleSuccess
)

func (s Style) String() string {
	switch s {
	case StyleNormal:
		return "normal"
	case StyleDisabled:
		return "disabled"
	case StyleHighlighted:
		return "highlighted"
	case StyleSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Surface is everything the controller needs from the presentation layer.
type Surface interface {
	SetVisible(r Region, visible bool)
	SetText(r Region, text string)
	SetStyle(r Region, style Style)
}

// RegionState is the rendered state of one region.
type RegionState struct {
	Visible bool
	Text    string
	Style   Style
}

// Labels shown on the two action buttons and the results placeholder.
const (
	LabelGenerate          = "Generate Contract"
	LabelGenerating        = "Generating..."
	LabelContractGenerated = "Contract Generated ✓"
	LabelDeploy            = "Deploy Securely"
	LabelDeploying         = "Deploying..."
	LabelDeployed          = "Deployed Successfully ✓"
	ResultsPlaceholder     = "Deployment results will appear here..."
)

// Regions lists every region in display order.
func Regions() []Region {
	return []Region{
		RegionUserMessage,
		RegionInputArea,
		RegionGenerateAction,
		RegionTypingIndicator,
		RegionGeneratedCode,
		RegionProblemAlert,
		RegionOnchainOSPanel,
		RegionSessionSection,
		RegionDeployAction,
		RegionProcessing,
		RegionProcessText,
		RegionResultsPanel,
		RegionResultsPlace,
		RegionSuccessResults,
		RegionClassHash,
		RegionContractLink,
		RegionTxLink,
		RegionGasUsed,
		RegionGasCost,
	}
}

// InitialLayout returns the state every region is put in by Reset.
func InitialLayout() map[Region]RegionState {
	layout := make(map[Region]RegionState, len(Regions()))
	for _, r := range Regions() {
		layout[r] = RegionState{}
	}
	layout[RegionInputArea] = RegionState{Visible: true}
	layout[RegionGenerateAction] = RegionState{Visible: true, Text: LabelGenerate}
	layout[RegionOnchainOSPanel] = RegionState{Visible: true}
	layout[RegionDeployAction] = RegionState{Visible: true, Text: LabelDeploy, Style: StyleDisabled}
	layout[RegionResultsPanel] = RegionState{Visible: true}
	layout[RegionResultsPlace] = RegionState{Visible: true, Text: ResultsPlaceholder}
	return layout
}

func applyLayout(s Surface, layout map[Region]RegionState) {
	for _, r := range Regions() {
		st := layout[r]
		s.SetVisible(r, st.Visible)
		s.SetText(r, st.Text)
		s.SetStyle(r, st.Style)
	}
}
