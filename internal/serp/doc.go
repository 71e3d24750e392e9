// Package serp builds search-engine result page URLs and extracts link
// candidates from rendered result markup.
//
// # Architecture
//
// Each supported engine implements the Engine interface: it knows how to
// construct the URL for a given query and page number and which DOM
// selector signals that results have rendered. The registry function
// ForName maps configured provider names to engines.
//
// ExtractCandidates walks the rendered HTML of one result page and emits
// a model.Candidate per anchor, pairing the href with the nearest result
// heading text. Extraction is deliberately indiscriminate: it collects
// every anchor, including engine navigation and tracking links, and leaves
// classification entirely to the normalizer. Splitting extraction from
// classification keeps this package free of profile-specific rules.
//
// Design decision: We use golang.org/x/net/html for parsing rather than
// regex because it correctly handles the malformed, deeply nested markup
// search engines emit, and the tree walk lets us associate each anchor
// with its enclosing result block's heading.
package serp
