// Package normalizer implements the result classification core: deciding
// whether a raw search-result link is a genuine profile link, reducing it
// to canonical form, and deduplicating it into a bounded result set.
//
// # Architecture
//
// The package exposes three pure operations plus one stateful accumulator
// entry point:
//
//   - ValidateURL: substring screening against the profile-path marker and
//     a denylist of engine-internal and tracking URL patterns
//   - Canonicalize: regex extraction of the canonical profile URL, dropping
//     trailing paths, queries, and fragments added by engine link-wrapping
//   - ValidateTitle: screening of display text against known UI noise
//   - Accept: the orchestration of the above against a model.ResultSet
//
// Design decision: every rejection is a normal return value carrying a
// model.RejectReason, never an error. Candidate classification failures
// are expected and high-frequency; a scraping loop must be able to feed
// arbitrarily malformed input through Accept without aborting.
//
// The core performs no I/O and never blocks. It does not take a context
// because there is nothing to cancel: classification of one candidate is
// a few substring checks and one regex match.
//
// Title policy: by default a candidate whose display text fails validation
// is rejected outright. WithFallbackTitle and WithGuessedTitles opt into
// accepting such candidates under a placeholder or a name derived from the
// URL handle. This is a deliberate product decision, not a correctness
// requirement; the default errs toward clean output.
package normalizer
