package normalizer

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/profscan/profscan/internal/model"
)

// profileMarker is the literal path marker every profile URL contains.
// Matching is case-sensitive: engines emit profile links lowercased, and
// a case-mangled host is engine plumbing, not a result link.
const profileMarker = "linkedin.com/in/"

// minTitleLength is the minimum display-text length in runes.
// Anything shorter is UI chrome ("Next", "Maps"), not a person's headline.
const minTitleLength = 5

// profilePattern extracts the shortest well-formed profile URL embedded in
// a raw result link: scheme, optional 2-3 character subdomain, host, and
// handle. The handle character class stops the match at the first slash,
// query, or fragment, which is what discards engine link-wrapping.
var profilePattern = regexp.MustCompile(`https?://(?:[a-z]{2,3}\.)?linkedin\.com/in/[A-Za-z0-9_-]+`)

// extraBlockedPatterns are denylist entries beyond the engines' own host
// markers: result-page query markers and tracking parameter prefixes that
// identify a URL as engine-internal even on an unrecognized host.
var extraBlockedPatterns = []string{
	"/search?",
	"&ved=",
	"?ved=",
	"&usg=",
	"&trk=",
	"?trk=",
}

// titleNoise is the fixed denylist of display texts that are known engine
// UI strings rather than result headings. Matched case-insensitively
// against the trimmed text. Includes the generic placeholder titles some
// result blocks carry, so a record is never created under a non-name
// unless a fallback policy explicitly opts in.
var titleNoise = []string{
	"images",
	"videos",
	"shopping",
	"more results",
	"all results",
	"people also ask",
	"people also search for",
	"related searches",
	"see more",
	"sign in",
	"linkedin",
	"linkedin profile",
	"unknown",
	"next page",
	"previous page",
}

// Normalizer classifies raw search-result candidates into profile records.
// A single Normalizer serves all providers within a run; the denylist it
// screens against covers every supported engine, so candidates from a
// fallback provider pass through the same rules as the primary's.
//
// Normalizer itself is stateless and safe for concurrent use; all run
// state lives in the ResultSet passed to Accept, which mandates a single
// writer (see model.ResultSet).
type Normalizer struct {
	blockedPatterns []string
	noiseTitles     map[string]struct{}
	fallbackTitle   string
	guessTitles     bool
	clock           func() time.Time
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithFallbackTitle accepts candidates whose display text failed validation
// and records them under the given placeholder title instead of rejecting
// them. The placeholder itself is exempt from noise screening.
func WithFallbackTitle(title string) Option {
	return func(n *Normalizer) {
		n.fallbackTitle = title
	}
}

// WithGuessedTitles accepts candidates whose display text failed validation
// and derives a title from the profile URL handle (see
// model.ProfileURL.DisplayName). Takes precedence over WithFallbackTitle;
// when the handle yields nothing readable, the static fallback applies if
// set, otherwise the candidate is rejected.
func WithGuessedTitles() Option {
	return func(n *Normalizer) {
		n.guessTitles = true
	}
}

// WithClock overrides the timestamp source for accepted records.
// Used in tests; defaults to time.Now.
func WithClock(clock func() time.Time) Option {
	return func(n *Normalizer) {
		n.clock = clock
	}
}

// New creates a Normalizer with the fixed URL and title denylists and the
// default strict title policy.
func New(opts ...Option) *Normalizer {
	blocked := make([]string, 0, len(extraBlockedPatterns)+8)
	for _, p := range model.AllProviders {
		blocked = append(blocked, p.HostMarkers()...)
	}
	blocked = append(blocked, extraBlockedPatterns...)

	noise := make(map[string]struct{}, len(titleNoise))
	for _, s := range titleNoise {
		noise[s] = struct{}{}
	}

	n := &Normalizer{
		blockedPatterns: blocked,
		noiseTitles:     noise,
		clock:           time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ValidateURL reports whether a URL string may represent a profile link.
// It rejects empty input, input missing the literal profile-path marker,
// and input containing any denylisted substring (engine host markers,
// result-page query markers, tracking parameter prefixes).
//
// Checks are case-sensitive substring containment only; no URL parsing.
// A true result means "not known to be engine plumbing", not "well-formed";
// use Canonicalize to obtain a validated canonical form.
func (n *Normalizer) ValidateURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	if !strings.Contains(rawURL, profileMarker) {
		return false
	}
	for _, pattern := range n.blockedPatterns {
		if strings.Contains(rawURL, pattern) {
			return false
		}
	}
	return true
}

// Canonicalize extracts the canonical profile URL embedded in a raw result
// link. Trailing path segments, query strings, and fragments appended by
// engine link-wrapping are discarded. The country-code subdomain is
// preserved: locale variants of a profile stay distinct.
//
// Returns the zero ProfileURL and false when the input contains no
// well-formed profile URL.
func (n *Normalizer) Canonicalize(rawURL string) (model.ProfileURL, bool) {
	match := profilePattern.FindString(rawURL)
	if match == "" {
		return model.ProfileURL{}, false
	}

	pu, err := model.ParseProfileURL(match)
	if err != nil {
		return model.ProfileURL{}, false
	}
	return pu, true
}

// ValidateTitle reports whether display text is usable as a record title.
// It rejects text that trims to fewer than 5 runes and text that matches
// the fixed noise denylist case-insensitively after trimming.
//
// This screens out known noise only; it does not verify that the text is
// a genuine person's name.
func (n *Normalizer) ValidateTitle(rawText string) bool {
	trimmed := strings.TrimSpace(rawText)
	if utf8.RuneCountInString(trimmed) < minTitleLength {
		return false
	}
	_, noisy := n.noiseTitles[strings.ToLower(trimmed)]
	return !noisy
}

// Accept classifies one candidate against the result set.
//
// When the set is saturated, Accept short-circuits with
// ReasonCapacityReached before any validation work. Otherwise the
// candidate is canonicalized, screened, deduplicated, and on success
// inserted into the set in arrival order.
//
// Accept never panics and never returns an error: malformed input
// degrades to a rejection outcome.
func (n *Normalizer) Accept(c model.Candidate, set *model.ResultSet) model.AcceptOutcome {
	if set.Saturated() {
		return model.AcceptOutcome{Reason: model.ReasonCapacityReached}
	}

	pu, ok := n.Canonicalize(c.RawURL)
	if !ok {
		return model.AcceptOutcome{Reason: model.ReasonNotProfileURL}
	}

	if !n.ValidateURL(pu.String()) {
		return model.AcceptOutcome{Reason: model.ReasonBlockedPattern}
	}

	title := strings.TrimSpace(c.RawText)
	if !n.ValidateTitle(title) {
		title = n.substituteTitle(pu)
		if title == "" {
			return model.AcceptOutcome{Reason: model.ReasonInvalidTitle}
		}
	}

	canonical := pu.String()
	if set.Contains(canonical) {
		return model.AcceptOutcome{Reason: model.ReasonDuplicate}
	}

	record := model.ProfileRecord{
		CanonicalURL: canonical,
		Title:        title,
		ObservedAt:   n.clock(),
	}
	set.Add(record)

	return model.AcceptOutcome{
		Record:   &record,
		Reason:   model.ReasonNone,
		Accepted: true,
	}
}

// substituteTitle applies the configured fallback policy for a candidate
// whose display text failed validation. Returns empty string under the
// default strict policy, which the caller maps to rejection.
func (n *Normalizer) substituteTitle(pu model.ProfileURL) string {
	if n.guessTitles {
		if guessed := pu.DisplayName(); guessed != "" {
			return guessed
		}
	}
	return n.fallbackTitle
}
