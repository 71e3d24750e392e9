// Package model defines the core data structures used throughout profscan.
//
// This package contains the following main types:
//   - Candidate: A raw (URL, text) pair extracted from one search-result page
//   - ProfileRecord: A validated, canonicalized, deduplicated output entry
//   - ResultSet: The insertion-ordered, capacity-bounded record accumulator
//   - ProfileURL: A value object for a canonical LinkedIn profile URL
//   - RunReport: The per-run result structure
//   - RunSummary: A summarized, human-readable view of a run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (serp, normalizer, pipeline, report) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
