// Package config provides configuration types and defaults for chaindemo.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/zjrosen/chaindemo/internal/flow"
	"github.com/zjrosen/chaindemo/internal/log"
)

// DefaultConfigPath is where a default config file is written when none is found.
const DefaultConfigPath = ".chaindemo/config.yaml"

// Config holds all configuration options for chaindemo.
type Config struct {
	Demo    DemoConfig      `mapstructure:"demo" yaml:"demo"`
	UI      UIConfig        `mapstructure:"ui" yaml:"ui"`
	Theme   ThemeConfig     `mapstructure:"theme" yaml:"theme"`
	History HistoryConfig   `mapstructure:"history" yaml:"history"`
	Tracing TracingConfig   `mapstructure:"tracing" yaml:"tracing"`
	Flags   map[string]bool `mapstructure:"flags" yaml:"flags,omitempty"`
}

// DemoConfig controls what the scripted run shows and how fast.
type DemoConfig struct {
	// Payload names the result preset: "starknet" (default) or "sepolia".
	Payload string `mapstructure:"payload" yaml:"payload"`

	// Speed divides every delay. 2 runs the demo twice as fast.
	Speed float64 `mapstructure:"speed" yaml:"speed"`

	// Prompt is the placeholder of the chat entry.
	Prompt string `mapstructure:"prompt" yaml:"prompt"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	MarkdownStyle string `mapstructure:"markdown_style" yaml:"markdown_style"` // "dark" (default) or "light"
	Mouse         bool   `mapstructure:"mouse" yaml:"mouse"`
	ShowTips      bool   `mapstructure:"show_tips" yaml:"show_tips"` // Show presenter tips on startup
}

// ThemeConfig holds all theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	// Valid values: "default", "dracula", "nord", "high-contrast"
	Preset string `mapstructure:"preset" yaml:"preset,omitempty"`

	// Colors allows overriding individual color tokens.
	// Supports both nested YAML structure and dot notation.
	// Example YAML:
	//   colors:
	//     panel:
	//       highlight: "#FF9900"
	// Or quoted dot notation:
	//   colors:
	//     "panel.highlight": "#FF9900"
	Colors map[string]any `mapstructure:"colors" yaml:"colors,omitempty"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// HistoryConfig controls the run journal.
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Path is the SQLite database file.
	// Default: ~/.config/chaindemo/history.db
	Path string `mapstructure:"path" yaml:"path"`
}

// TracingConfig holds OpenTelemetry tracing configuration for demo runs.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter" yaml:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/chaindemo/traces/traces.jsonl
	FilePath string `mapstructure:"file_path" yaml:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
}

// Timing returns the flow delays scaled by the configured speed.
func (d DemoConfig) Timing() flow.Timing {
	return flow.DefaultTiming().Scale(d.Speed)
}

// DefaultHistoryPath returns ~/.config/chaindemo/history.db, or "" if the
// home directory is unavailable.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "chaindemo", "history.db")
}

// DefaultTracesFilePath returns ~/.config/chaindemo/traces/traces.jsonl, or
// "" if the home directory is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "chaindemo", "traces", "traces.jsonl")
}

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	if err := ValidateDemo(cfg.Demo); err != nil {
		return err
	}
	if err := ValidateUI(cfg.UI); err != nil {
		return err
	}
	if err := ValidateHistory(cfg.History); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateDemo rejects unknown payload presets and non-positive speeds.
func ValidateDemo(demo DemoConfig) error {
	if _, err := flow.LookupPayload(demo.Payload); err != nil {
		return fmt.Errorf("demo.payload: %w", err)
	}
	if demo.Speed <= 0 {
		return fmt.Errorf("demo.speed must be greater than 0, got %v", demo.Speed)
	}
	return nil
}

// ValidateUI checks the markdown style.
func ValidateUI(ui UIConfig) error {
	switch ui.MarkdownStyle {
	case "", "dark", "light":
		return nil
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
}

// ValidateHistory requires a path when the journal is on.
func ValidateHistory(history HistoryConfig) error {
	if history.Enabled && history.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	// Path requirements only matter when tracing is on
	if tracing.Enabled {
		if tracing.Exporter == "file" && tracing.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Demo: DemoConfig{
			Payload: flow.DefaultPayloadName,
			Speed:   1.0,
			Prompt:  "Describe the contract you want...",
		},
		UI: UIConfig{
			MarkdownStyle: "dark",
			Mouse:         true,
			ShowTips:      false,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    DefaultHistoryPath(),
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     DefaultTracesFilePath(),
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Flags: map[string]bool{},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# chaindemo configuration

# Demo run settings
demo:
  payload: starknet   # Result preset: starknet (default) or sepolia
  speed: 1.0          # Delay divisor; 2.0 runs the demo twice as fast
  prompt: "Describe the contract you want..."

# UI settings
ui:
  markdown_style: dark  # Code block rendering style: "dark" (default) or "light"
  mouse: true           # Click buttons and links
  show_tips: false      # Open presenter tips on startup

# Theme configuration
theme:
  # preset: dracula
  #
  # Available presets:
  #   default        - Default chaindemo theme
  #   dracula        - Dark theme with vibrant colors
  #   nord           - Arctic, north-bluish palette
  #   high-contrast  - High contrast for projectors
  #
  # Override specific colors (works with or without preset):
  # colors:
  #   panel.highlight: "#FF9900"
  #   status.success: "#00FF00"

# Run journal ('chaindemo history' lists past runs)
history:
  enabled: true
  # path: ~/.config/chaindemo/history.db

# OpenTelemetry tracing of demo runs
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/chaindemo/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)

# Feature flags
# flags:
#   legacy-reset: false  # Let timers started before a restart keep firing
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
