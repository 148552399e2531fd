package app

import "github.com/zjrosen/chaindemo/internal/flow"

// Fixed copy of the demo panels.
const (
	assistantGreeting = "Hi! Describe the smart contract you need and I'll write it in Cairo."
	typingText        = "AI is writing your contract..."
	codeIntro         = "Here is your contract:"

	problemTitle = "⚠ Problem"
	problemText  = "Deploying this normally means pasting a private key into a hot wallet " +
		"or a CI secret. One leaked key drains everything it controls."

	onchainOSIntro = "OnchainOS signs with a short-lived session key scoped by policy. " +
		"Your main key never leaves cold storage."
	waitingText = "Waiting for a contract..."

	sessionTitle  = "🔑 Session key created"
	processTitle  = "Deploying"
	resultsTitle  = "✓ Contract deployed"
	restartHint   = "r restart"
	copyHint      = "c copy contract url · t copy tx url"
	restartToast  = "Demo restarted - try it again!"
	resultsLegend = "⏳"
)

// sessionLines describe the scoped key the security layer "creates".
var sessionLines = []string{
	"Scope      deploy only",
	"Spend cap  0.01 ETH",
	"Expires    15 minutes",
	"Policy     simulation required",
}

// Tip is one presenter talking point.
type Tip struct {
	Step string
	Text string
}

// PresenterTips are the talking points shown with ? and by `chaindemo tips`.
func PresenterTips() []Tip {
	return []Tip{
		{Step: "Prompt", Text: "Type what the contract should do, or press g to skip the chat."},
		{Step: "Generate", Text: "Point at the alert: the generated code is fine, the deployment is the risk."},
		{Step: "Session key", Text: "OnchainOS lights up and issues a scoped key. No private key is pasted anywhere."},
		{Step: "Deploy", Text: "Press space or d. Narrate the policy checks as the status lines change."},
		{Step: "Results", Text: "Press c or t to copy the explorer link and show the real deployment."},
		{Step: "Audit", Text: "Every run is journaled. `chaindemo history` shows the audit trail."},
		{Step: "Again", Text: "Press r to restart. p switches between Starknet and Ethereum Sepolia."},
	}
}

func explorerToast(p flow.Payload, what string) string {
	explorer := p.Explorer
	if explorer == "" {
		explorer = "explorer"
	}
	return "Opening " + explorer + " " + what + " page..."
}
