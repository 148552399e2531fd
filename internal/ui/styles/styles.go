// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor     = lipgloss.AdaptiveColor{Light: "#2B2B2B", Dark: "#CCCCCC"} // Main text
	TextSecondaryColor   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"} // Labels, hashes
	TextMutedColor       = lipgloss.AdaptiveColor{Light: "#8C8C8C", Dark: "#696969"} // Hints, footers
	TextPlaceholderColor = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#777777"} // Input placeholder

	// Borders
	BorderDefaultColor = lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#696969"}
	// HighlightColor marks the OnchainOS panel once the contract is ready.
	HighlightColor = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#A48BFF"}

	// Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#D9A21B", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#E03E3E", Dark: "#FF8787"}

	// Buttons
	ButtonTextColor       = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}
	ButtonPrimaryBgColor  = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#1A5276"}
	ButtonDisabledBgColor = lipgloss.AdaptiveColor{Light: "#9E9E9E", Dark: "#2D2D2D"}
	ButtonSuccessBgColor  = lipgloss.AdaptiveColor{Light: "#2E8B57", Dark: "#2E8B57"}

	// Chat transcript
	ChatUserColor      = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#54A0FF"}
	ChatAssistantColor = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#A48BFF"}
	LinkColor          = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#8BE9FD"}

	// Overlays
	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#2B2B2B", Dark: "#C9C9C9"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#8C8C8C", Dark: "#8C8C8C"}

	// Toasts
	ToastBorderSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	ToastBorderErrorColor   = lipgloss.AdaptiveColor{Light: "#E03E3E", Dark: "#FF8787"}
	ToastBorderInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}
	ToastBorderWarnColor    = lipgloss.AdaptiveColor{Light: "#D9A21B", Dark: "#FECA57"}

	SpinnerColor = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#FFFFFF"}

	baseButtonStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true)

	ButtonNormalStyle   lipgloss.Style
	ButtonDisabledStyle lipgloss.Style
	ButtonSuccessStyle  lipgloss.Style

	UserMessageStyle lipgloss.Style
	AssistantStyle   lipgloss.Style
	LinkStyle        lipgloss.Style
	MutedStyle       lipgloss.Style
	SuccessStyle     lipgloss.Style
	WarningStyle     lipgloss.Style
	KeyHintStyle     lipgloss.Style
	StatusBarStyle   lipgloss.Style
	ErrorStyle       lipgloss.Style
	SpinnerStyle     lipgloss.Style
)

func init() {
	rebuildStyles()
}
