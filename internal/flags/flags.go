// Package flags provides feature flags read from the "flags" config section.
// Flags are read-only after initialization and unknown flags read as false.
package flags

import (
	"maps"
	"slices"

	"github.com/zjrosen/chaindemo/internal/log"
)

const (
	// FlagLegacyReset lets timers started before a restart keep firing after
	// it, so a reset mid-run can show stale reveals.
	FlagLegacyReset = "legacy-reset"

	// FlagPresenterTips opens the presenter tips overlay on startup.
	FlagPresenterTips = "presenter-tips"

	// FlagAutoplay runs the whole demo from the first key press without
	// waiting for the deploy action.
	FlagAutoplay = "autoplay"
)

// Descriptions documents every known flag.
var Descriptions = map[string]string{
	FlagLegacyReset:   "timers started before a restart keep firing after it",
	FlagPresenterTips: "open presenter tips on startup",
	FlagAutoplay:      "deploy automatically once the session key is ready",
}

// Registry holds feature flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map. The map is copied.
func New(flags map[string]bool) *Registry {
	r := &Registry{flags: maps.Clone(flags)}
	if r.flags == nil {
		r.flags = make(map[string]bool)
	}
	if unknown := r.Unknown(); len(unknown) > 0 {
		log.Warn(log.CatConfig, "Unknown feature flags in config", "flags", unknown)
	}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(r.flags), "flags", r.All())
	return r
}

// Enabled reports whether the named flag is on. Nil-safe.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// All returns a copy of all configured flags.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return make(map[string]bool)
	}
	return maps.Clone(r.flags)
}

// Unknown returns the configured flag names this build does not know, sorted.
func (r *Registry) Unknown() []string {
	if r == nil {
		return nil
	}
	var out []string
	for name := range r.flags {
		if _, ok := Descriptions[name]; !ok {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// Known returns the names of all flags this build understands, sorted.
func Known() []string {
	return slices.Sorted(maps.Keys(Descriptions))
}
