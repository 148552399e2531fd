package styles

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styleRebuilders rebuild styles owned by other packages after ApplyTheme.
var styleRebuilders []func()

// RegisterStyleRebuilder adds fn to the callbacks run after ApplyTheme.
// Packages that cache lipgloss.Style values built from these colors register
// here since styles cannot import them.
func RegisterStyleRebuilder(fn func()) {
	styleRebuilders = append(styleRebuilders, fn)
}

// ThemeConfig mirrors config.ThemeConfig to avoid an import cycle.
type ThemeConfig struct {
	Preset string
	Colors map[string]string
}

// tokenTargets maps each token to the color variables it sets.
func tokenTargets() map[ColorToken][]*lipgloss.AdaptiveColor {
	return map[ColorToken][]*lipgloss.AdaptiveColor{
		TokenTextPrimary:      {&TextPrimaryColor},
		TokenTextSecondary:    {&TextSecondaryColor},
		TokenTextMuted:        {&TextMutedColor},
		TokenTextPlaceholder:  {&TextPlaceholderColor},
		TokenBorderDefault:    {&BorderDefaultColor},
		TokenBorderHighlight:  {&HighlightColor},
		TokenStatusSuccess:    {&StatusSuccessColor},
		TokenStatusWarning:    {&StatusWarningColor},
		TokenStatusError:      {&StatusErrorColor},
		TokenButtonText:       {&ButtonTextColor},
		TokenButtonPrimaryBg:  {&ButtonPrimaryBgColor},
		TokenButtonDisabledBg: {&ButtonDisabledBgColor},
		TokenButtonSuccessBg:  {&ButtonSuccessBgColor},
		TokenChatUser:         {&ChatUserColor},
		TokenChatAssistant:    {&ChatAssistantColor},
		TokenLink:             {&LinkColor},
		TokenOverlayTitle:     {&OverlayTitleColor},
		TokenOverlayBorder:    {&OverlayBorderColor},
		TokenToastSuccess:     {&ToastBorderSuccessColor},
		TokenToastError:       {&ToastBorderErrorColor},
		TokenToastInfo:        {&ToastBorderInfoColor},
		TokenToastWarn:        {&ToastBorderWarnColor},
		TokenSpinner:          {&SpinnerColor},
	}
}

// builtin holds the adaptive colors from styles.go so the default theme
// keeps its light-background variants.
var builtin = snapshot()

func snapshot() map[ColorToken]lipgloss.AdaptiveColor {
	out := make(map[ColorToken]lipgloss.AdaptiveColor)
	for token, targets := range tokenTargets() {
		out[token] = *targets[0]
	}
	return out
}

// ApplyTheme applies a theme configuration:
// 1. Restore the built-in colors
// 2. Apply the preset (if not default)
// 3. Apply individual color overrides
// 4. Rebuild all Style objects
func ApplyTheme(cfg ThemeConfig) error {
	colors := map[ColorToken]string{}

	if cfg.Preset != "" && cfg.Preset != "default" {
		preset, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset: %s", cfg.Preset)
		}
		maps.Copy(colors, preset.Colors)
	}

	for key, value := range cfg.Colors {
		token := ColorToken(key)
		if !isValidToken(token) {
			return fmt.Errorf("unknown color token: %s", key)
		}
		if !isValidHexColor(value) {
			return fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		colors[token] = value
	}

	targets := tokenTargets()
	for token, c := range builtin {
		for _, dst := range targets[token] {
			*dst = c
		}
	}
	for token, hex := range colors {
		for _, dst := range targets[token] {
			*dst = lipgloss.AdaptiveColor{Light: hex, Dark: hex}
		}
	}

	rebuildStyles()
	return nil
}

// rebuildStyles recreates Style values; lipgloss captures colors at creation.
func rebuildStyles() {
	baseButtonStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true)

	ButtonNormalStyle = baseButtonStyle.
		Foreground(ButtonTextColor).
		Background(ButtonPrimaryBgColor)

	ButtonDisabledStyle = baseButtonStyle.
		Foreground(TextMutedColor).
		Background(ButtonDisabledBgColor)

	ButtonSuccessStyle = baseButtonStyle.
		Foreground(ButtonTextColor).
		Background(ButtonSuccessBgColor)

	UserMessageStyle = lipgloss.NewStyle().Foreground(ChatUserColor)
	AssistantStyle = lipgloss.NewStyle().Foreground(ChatAssistantColor).Bold(true)
	LinkStyle = lipgloss.NewStyle().Foreground(LinkColor).Underline(true)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(StatusWarningColor).Bold(true)
	KeyHintStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor).Bold(true)
	SpinnerStyle = lipgloss.NewStyle().Foreground(SpinnerColor)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(TextSecondaryColor).
		Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(StatusErrorColor).
		Bold(true).
		Padding(1, 2)

	for _, fn := range styleRebuilders {
		fn()
	}
}

func isValidToken(token ColorToken) bool {
	return slices.Contains(AllTokens(), token)
}

func isValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 64)
	return err == nil
}
