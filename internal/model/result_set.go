package model

import "time"

// DefaultMaxRecords is the default capacity of a ResultSet.
const DefaultMaxRecords = 30

// ProfileRecord is the accepted, canonicalized output of classification.
// Immutable once created; owned by the ResultSet from creation until the
// process ends.
type ProfileRecord struct {
	// CanonicalURL is the normalized, tracking-free profile URL.
	// It is the deduplication key within a ResultSet.
	CanonicalURL string `json:"canonical_url"`

	// Title is the display text the record was accepted under.
	Title string `json:"title"`

	// ObservedAt is when the candidate was accepted.
	ObservedAt time.Time `json:"observed_at"`
}

// ResultSet is an insertion-ordered collection of ProfileRecord keyed by
// canonical URL. It grows monotonically during a run, never shrinks, and
// is bounded by a maximum size fixed at construction.
//
// A ResultSet has two observable states: accepting (len < max) and
// saturated (len == max). It is scoped to one run and passed explicitly
// into classification; there is no process-wide accumulator.
//
// Design decision: ResultSet is not safe for concurrent mutation. The
// usage model is single-writer: one orchestrating goroutine owns the set
// and serializes all insertions, even when page fetches are parallelized.
// Guarding the uniqueness invariant with a mutex would suggest a sharing
// model the design deliberately rules out.
type ResultSet struct {
	records []ProfileRecord
	index   map[string]struct{}
	max     int
}

// NewResultSet creates an empty ResultSet bounded to max records.
// Non-positive max falls back to DefaultMaxRecords.
func NewResultSet(max int) *ResultSet {
	if max <= 0 {
		max = DefaultMaxRecords
	}
	return &ResultSet{
		records: make([]ProfileRecord, 0, max),
		index:   make(map[string]struct{}, max),
		max:     max,
	}
}

// Len returns the number of records in the set.
func (s *ResultSet) Len() int {
	return len(s.records)
}

// Max returns the capacity bound of the set.
func (s *ResultSet) Max() int {
	return s.max
}

// Saturated returns true once the set holds its maximum number of records.
func (s *ResultSet) Saturated() bool {
	return len(s.records) >= s.max
}

// Contains returns true if a record with the given canonical URL exists.
func (s *ResultSet) Contains(canonicalURL string) bool {
	_, ok := s.index[canonicalURL]
	return ok
}

// Add inserts a record, preserving insertion order. Returns false without
// modifying the set when the set is saturated or a record with the same
// canonical URL already exists.
func (s *ResultSet) Add(rec ProfileRecord) bool {
	if s.Saturated() || s.Contains(rec.CanonicalURL) {
		return false
	}
	s.records = append(s.records, rec)
	s.index[rec.CanonicalURL] = struct{}{}
	return true
}

// Records returns the records in insertion order.
// The returned slice is a copy; mutating it does not affect the set.
func (s *ResultSet) Records() []ProfileRecord {
	out := make([]ProfileRecord, len(s.records))
	copy(out, s.records)
	return out
}
