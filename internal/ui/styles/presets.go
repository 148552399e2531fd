package styles

import (
	"maps"
	"slices"
)

// Preset is a complete color theme.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// Presets contains the built-in themes.
var Presets = map[string]Preset{
	"default":       DefaultPreset,
	"dracula":       DraculaPreset,
	"nord":          NordPreset,
	"high-contrast": HighContrastPreset,
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	return slices.Sorted(maps.Keys(Presets))
}

// DefaultPreset matches the dark values in styles.go.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default chaindemo theme",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#CCCCCC",
		TokenTextSecondary:   "#BBBBBB",
		TokenTextMuted:       "#696969",
		TokenTextPlaceholder: "#777777",

		TokenBorderDefault:   "#696969",
		TokenBorderHighlight: "#A48BFF",

		TokenStatusSuccess: "#73F59F",
		TokenStatusWarning: "#FECA57",
		TokenStatusError:   "#FF8787",

		TokenButtonText:       "#FFFFFF",
		TokenButtonPrimaryBg:  "#1A5276",
		TokenButtonDisabledBg: "#2D2D2D",
		TokenButtonSuccessBg:  "#2E8B57",

		TokenChatUser:      "#54A0FF",
		TokenChatAssistant: "#A48BFF",
		TokenLink:          "#8BE9FD",

		TokenOverlayTitle:  "#C9C9C9",
		TokenOverlayBorder: "#8C8C8C",

		TokenToastSuccess: "#73F59F",
		TokenToastError:   "#FF8787",
		TokenToastInfo:    "#54A0FF",
		TokenToastWarn:    "#FECA57",

		TokenSpinner: "#FFFFFF",
	},
}

// DraculaPreset uses the palette from https://draculatheme.com/contribute.
var DraculaPreset = Preset{
	Name:        "dracula",
	Description: "Dracula - dark theme with vibrant colors",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#F8F8F2", // foreground
		TokenTextSecondary:   "#F8F8F2", // foreground
		TokenTextMuted:       "#6272A4", // comment
		TokenTextPlaceholder: "#6272A4", // comment

		TokenBorderDefault:   "#6272A4", // comment
		TokenBorderHighlight: "#BD93F9", // purple

		TokenStatusSuccess: "#50FA7B", // green
		TokenStatusWarning: "#F1FA8C", // yellow
		TokenStatusError:   "#FF5555", // red

		TokenButtonText:       "#282A36", // background
		TokenButtonPrimaryBg:  "#BD93F9", // purple
		TokenButtonDisabledBg: "#44475A", // current line
		TokenButtonSuccessBg:  "#50FA7B", // green

		TokenChatUser:      "#8BE9FD", // cyan
		TokenChatAssistant: "#FF79C6", // pink
		TokenLink:          "#8BE9FD", // cyan

		TokenOverlayTitle:  "#F8F8F2", // foreground
		TokenOverlayBorder: "#6272A4", // comment

		TokenToastSuccess: "#50FA7B", // green
		TokenToastError:   "#FF5555", // red
		TokenToastInfo:    "#8BE9FD", // cyan
		TokenToastWarn:    "#F1FA8C", // yellow

		TokenSpinner: "#BD93F9", // purple
	},
}

// NordPreset uses the palette from https://www.nordtheme.com.
var NordPreset = Preset{
	Name:        "nord",
	Description: "Nord - arctic, north-bluish palette",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#ECEFF4", // snow storm 3
		TokenTextSecondary:   "#E5E9F0", // snow storm 2
		TokenTextMuted:       "#4C566A", // polar night 4
		TokenTextPlaceholder: "#4C566A", // polar night 4

		TokenBorderDefault:   "#4C566A", // polar night 4
		TokenBorderHighlight: "#88C0D0", // frost 2

		TokenStatusSuccess: "#A3BE8C", // aurora green
		TokenStatusWarning: "#EBCB8B", // aurora yellow
		TokenStatusError:   "#BF616A", // aurora red

		TokenButtonText:       "#2E3440", // polar night 1
		TokenButtonPrimaryBg:  "#5E81AC", // frost 4
		TokenButtonDisabledBg: "#3B4252", // polar night 2
		TokenButtonSuccessBg:  "#A3BE8C", // aurora green

		TokenChatUser:      "#81A1C1", // frost 3
		TokenChatAssistant: "#B48EAD", // aurora purple
		TokenLink:          "#88C0D0", // frost 2

		TokenOverlayTitle:  "#ECEFF4", // snow storm 3
		TokenOverlayBorder: "#4C566A", // polar night 4

		TokenToastSuccess: "#A3BE8C", // aurora green
		TokenToastError:   "#BF616A", // aurora red
		TokenToastInfo:    "#81A1C1", // frost 3
		TokenToastWarn:    "#EBCB8B", // aurora yellow

		TokenSpinner: "#88C0D0", // frost 2
	},
}

// HighContrastPreset is for projectors and screen sharing.
var HighContrastPreset = Preset{
	Name:        "high-contrast",
	Description: "High contrast for projectors",
	Colors: map[ColorToken]string{
		TokenTextPrimary:     "#FFFFFF",
		TokenTextSecondary:   "#FFFFFF",
		TokenTextMuted:       "#FFFFFF", // no muted colors in high contrast
		TokenTextPlaceholder: "#CCCCCC",

		TokenBorderDefault:   "#FFFFFF",
		TokenBorderHighlight: "#00FFFF",

		TokenStatusSuccess: "#00FF00",
		TokenStatusWarning: "#FFFF00",
		TokenStatusError:   "#FF0000",

		TokenButtonText:       "#000000",
		TokenButtonPrimaryBg:  "#00FFFF",
		TokenButtonDisabledBg: "#404040",
		TokenButtonSuccessBg:  "#00FF00",

		TokenChatUser:      "#00FFFF",
		TokenChatAssistant: "#FF00FF",
		TokenLink:          "#FFFF00",

		TokenOverlayTitle:  "#FFFFFF",
		TokenOverlayBorder: "#FFFFFF",

		TokenToastSuccess: "#00FF00",
		TokenToastError:   "#FF0000",
		TokenToastInfo:    "#00FFFF",
		TokenToastWarn:    "#FFFF00",

		TokenSpinner: "#FFFF00",
	},
}
