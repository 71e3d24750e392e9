package config

import "time"

// ProviderConfig holds per-engine configuration overrides.
// This allows tuning page cadence per search engine, since engines
// differ in how aggressively they rate-limit repeated queries.
type ProviderConfig struct {
	// MaxPages overrides the global result-page limit for this engine.
	// If zero, the global MaxPages is used.
	MaxPages int `yaml:"maxPages,omitempty"`

	// PageDelay overrides the global pause between result pages.
	// If zero, the global PageDelay is used.
	PageDelay time.Duration `yaml:"pageDelay,omitempty"`

	// Disabled removes this engine from the run even when it appears
	// in the provider list.
	Disabled bool `yaml:"disabled,omitempty"`
}

// File represents the structure of the .profscan configuration file.
type File struct {
	// Providers maps engine names to their overrides.
	// Keys are provider names as accepted on the command line
	// (e.g., "google", "bing").
	Providers map[string]ProviderConfig `yaml:"providers,omitempty"`

	// Defaults contains default provider configuration applied to all
	// engines unless overridden in the provider-specific configuration.
	Defaults ProviderConfig `yaml:"defaults,omitempty"`
}

// GetProviderConfig returns the configuration for a specific engine.
// It merges the provider-specific configuration with defaults.
func (cf *File) GetProviderConfig(name string) ProviderConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with provider-specific configuration if present
	if pc, ok := cf.Providers[name]; ok {
		if pc.MaxPages != 0 {
			result.MaxPages = pc.MaxPages
		}
		if pc.PageDelay != 0 {
			result.PageDelay = pc.PageDelay
		}
		if pc.Disabled {
			result.Disabled = true
		}
	}

	return result
}
