package model

import "strings"

// providerUnknownStr is the string representation for unknown provider values.
const providerUnknownStr = "unknown"

// Provider represents an upstream search engine queried for results.
//
// Design decision: We use string-typed constants rather than iota because
// provider names appear on the command line, in the config file, and in the
// history database; keeping the wire form and the Go value identical avoids
// a mapping layer in three places.
type Provider string

// Supported search engines.
const (
	// ProviderUnknown represents an unrecognized provider name.
	ProviderUnknown Provider = ""
	// ProviderGoogle is the primary search engine.
	ProviderGoogle Provider = "google"
	// ProviderBing is the fallback search engine.
	ProviderBing Provider = "bing"
)

// AllProviders lists every supported provider in default query order.
var AllProviders = []Provider{ProviderGoogle, ProviderBing}

// String returns the provider name, or "unknown" for unrecognized values.
func (p Provider) String() string {
	if p == ProviderUnknown {
		return providerUnknownStr
	}
	return string(p)
}

// IsValid returns true if the provider is one of the supported engines.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderGoogle, ProviderBing:
		return true
	case ProviderUnknown:
		return false
	}
	return false
}

// ParseProvider converts a provider name into a Provider value.
// Matching is case-insensitive. Returns ProviderUnknown and false for
// names that do not correspond to a supported engine.
func ParseProvider(name string) (Provider, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "google":
		return ProviderGoogle, true
	case "bing":
		return ProviderBing, true
	default:
		return ProviderUnknown, false
	}
}

// HostMarkers returns the substrings that identify this engine's own URLs:
// result hosts, click-tracking wrappers, and redirect endpoints. A candidate
// URL containing any of these is engine plumbing, never a profile link.
//
// These are plain substrings matched case-sensitively against the raw URL,
// mirroring how the engines emit them in result markup.
func (p Provider) HostMarkers() []string {
	switch p {
	case ProviderGoogle:
		return []string{
			"google.com",
			"googleusercontent.com",
			"gstatic.com",
			"/url?q=",
		}
	case ProviderBing:
		return []string{
			"bing.com",
			"bing.net",
			"microsoft.com",
			"/ck/a?",
		}
	case ProviderUnknown:
		return nil
	}
	return nil
}
