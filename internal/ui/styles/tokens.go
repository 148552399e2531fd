package styles

// ColorToken is a themeable color name. Tokens are the keys users set under
// theme.colors in the config file.
type ColorToken string

const (
	// Text hierarchy
	TokenTextPrimary     ColorToken = "text.primary"
	TokenTextSecondary   ColorToken = "text.secondary"
	TokenTextMuted       ColorToken = "text.muted"
	TokenTextPlaceholder ColorToken = "text.placeholder"

	// Borders
	TokenBorderDefault   ColorToken = "border.default"
	TokenBorderHighlight ColorToken = "border.highlight"

	// Status indicators
	TokenStatusSuccess ColorToken = "status.success"
	TokenStatusWarning ColorToken = "status.warning"
	TokenStatusError   ColorToken = "status.error"

	// Buttons
	TokenButtonText       ColorToken = "button.text"
	TokenButtonPrimaryBg  ColorToken = "button.primary.bg"
	TokenButtonDisabledBg ColorToken = "button.disabled.bg"
	TokenButtonSuccessBg  ColorToken = "button.success.bg"

	// Chat transcript
	TokenChatUser      ColorToken = "chat.user"
	TokenChatAssistant ColorToken = "chat.assistant"
	TokenLink          ColorToken = "link"

	// Overlays
	TokenOverlayTitle  ColorToken = "overlay.title"
	TokenOverlayBorder ColorToken = "overlay.border"

	// Toast notifications
	TokenToastSuccess ColorToken = "toast.success"
	TokenToastError   ColorToken = "toast.error"
	TokenToastInfo    ColorToken = "toast.info"
	TokenToastWarn    ColorToken = "toast.warn"

	TokenSpinner ColorToken = "spinner"
)

// AllTokens returns every valid color token.
func AllTokens() []ColorToken {
	return []ColorToken{
		TokenTextPrimary,
		TokenTextSecondary,
		TokenTextMuted,
		TokenTextPlaceholder,

		TokenBorderDefault,
		TokenBorderHighlight,

		TokenStatusSuccess,
		TokenStatusWarning,
		TokenStatusError,

		TokenButtonText,
		TokenButtonPrimaryBg,
		TokenButtonDisabledBg,
		TokenButtonSuccessBg,

		TokenChatUser,
		TokenChatAssistant,
		TokenLink,

		TokenOverlayTitle,
		TokenOverlayBorder,

		TokenToastSuccess,
		TokenToastError,
		TokenToastInfo,
		TokenToastWarn,

		TokenSpinner,
	}
}
