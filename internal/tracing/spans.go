package tracing

// Span names.
const (
	SpanRun      = "demo.run"
	SpanGenerate = "demo.generate"
	SpanDeploy   = "demo.deploy"
)

// Span attribute keys.
const (
	AttrRunID     = "run.id"
	AttrPayload   = "payload.name"
	AttrNetwork   = "payload.network"
	AttrOutcome   = "run.outcome"
	AttrStep      = "run.step"
	AttrTxHash    = "tx.hash"
	AttrMessage   = "status.message"
	AttrPromptLen = "prompt.length"
)

// Span event names.
const (
	EventPromptSubmitted = "prompt.submitted"
	EventCodeRevealed    = "code.revealed"
	EventSessionKey      = "session_key.created"
	EventDeployStatus    = "deploy.status"
)
