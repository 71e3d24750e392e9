package serp

import (
	"fmt"
	"net/url"

	"github.com/profscan/profscan/internal/model"
)

// resultsPerPage is the result count both engines serve per page.
const resultsPerPage = 10

// Engine describes one search engine's result-page addressing.
//
// Design decision: We use an interface rather than a concrete type because
// engines differ only in URL shape and render selector; the pipeline can
// treat them uniformly, and tests can substitute a fake engine without a
// network or a browser.
type Engine interface {
	// Provider returns the provider identity of this engine.
	Provider() model.Provider

	// PageURL builds the result-page URL for a query.
	// Pages are 1-based; page 1 is the first result page.
	PageURL(query string, page int) string

	// WaitSelector returns the CSS selector whose visibility signals
	// that the result blocks have rendered.
	WaitSelector() string
}

// googleEngine addresses Google result pages.
type googleEngine struct{}

func (googleEngine) Provider() model.Provider { return model.ProviderGoogle }

func (googleEngine) PageURL(query string, page int) string {
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf("https://www.google.com/search?q=%s&start=%d",
		url.QueryEscape(query), (page-1)*resultsPerPage)
}

func (googleEngine) WaitSelector() string { return "#search" }

// bingEngine addresses Bing result pages.
// Bing's first parameter is the 1-based index of the first result on the
// page, not a page number.
type bingEngine struct{}

func (bingEngine) Provider() model.Provider { return model.ProviderBing }

func (bingEngine) PageURL(query string, page int) string {
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf("https://www.bing.com/search?q=%s&first=%d",
		url.QueryEscape(query), (page-1)*resultsPerPage+1)
}

func (bingEngine) WaitSelector() string { return "#b_results" }

// ForName returns the engine for a configured provider name.
// Returns nil and false for names that do not map to a supported engine.
func ForName(name string) (Engine, bool) {
	p, ok := model.ParseProvider(name)
	if !ok {
		return nil, false
	}
	return ForProvider(p)
}

// ForProvider returns the engine for a provider value.
func ForProvider(p model.Provider) (Engine, bool) {
	switch p {
	case model.ProviderGoogle:
		return googleEngine{}, true
	case model.ProviderBing:
		return bingEngine{}, true
	case model.ProviderUnknown:
		return nil, false
	}
	return nil, false
}

// Interface guards.
var (
	_ Engine = googleEngine{}
	_ Engine = bingEngine{}
)
