package model

// Candidate is a raw observation extracted from one search-result page:
// a link URL and its associated display text, not yet validated.
// Candidates are ephemeral; one is created per extracted link element and
// discarded immediately after classification.
type Candidate struct {
	// RawURL is the link URL exactly as it appeared in the result markup.
	// May be an engine click-wrapper, a relative fragment, or empty.
	RawURL string `json:"raw_url"`

	// RawText is the display text associated with the link, typically the
	// result heading. May be empty or engine UI noise.
	RawText string `json:"raw_text"`

	// SourcePage is the 1-based result page the candidate came from.
	// Informational only; classification does not depend on it.
	SourcePage int `json:"source_page"`

	// Provider is the search engine that produced the result page.
	Provider Provider `json:"provider"`
}

// AcceptOutcome is the result of classifying one candidate.
// Exactly one of the two shapes occurs: Accepted with a non-nil Record,
// or not Accepted with a rejection Reason.
type AcceptOutcome struct {
	// Record is the created profile record. Nil unless Accepted.
	Record *ProfileRecord `json:"record,omitempty"`

	// Reason explains the rejection. ReasonNone when Accepted.
	Reason RejectReason `json:"reason"`

	// Accepted is true if the candidate produced a record.
	Accepted bool `json:"accepted"`
}
