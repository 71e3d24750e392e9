package model

// RejectReason classifies why a candidate did not produce a record.
// Rejections are expected, high-frequency outcomes of classification,
// so they are modeled as values rather than errors: a scraping loop must
// never be aborted by a single noisy link element.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and counting. The String() method provides
// the stable identifiers used in reports and the history database.
type RejectReason int

const (
	// ReasonNone indicates the candidate was accepted; no rejection occurred.
	ReasonNone RejectReason = iota

	// ReasonNotProfileURL indicates the raw URL did not contain a
	// well-formed profile URL. Examples: engine navigation links,
	// image results, relative fragments.
	ReasonNotProfileURL

	// ReasonBlockedPattern indicates the URL matched the denylist of
	// engine-internal and tracking URL markers.
	ReasonBlockedPattern

	// ReasonInvalidTitle indicates the display text was empty, too short,
	// or a known non-profile UI string such as a pagination label.
	ReasonInvalidTitle

	// ReasonDuplicate indicates a record with the same canonical URL
	// already exists in the result set.
	ReasonDuplicate

	// ReasonCapacityReached indicates the result set is saturated.
	// No validation is performed once this state is reached.
	ReasonCapacityReached
)

// String returns the stable identifier for the rejection reason.
// These identifiers appear in run reports and the history database,
// so they must not change between releases.
func (r RejectReason) String() string {
	switch r {
	case ReasonNone:
		return "accepted"
	case ReasonNotProfileURL:
		return "not_a_profile_url"
	case ReasonBlockedPattern:
		return "blocked_pattern"
	case ReasonInvalidTitle:
		return "invalid_title"
	case ReasonDuplicate:
		return "duplicate"
	case ReasonCapacityReached:
		return "capacity_reached"
	default:
		return "unknown"
	}
}

// RejectReasons lists every rejection reason in declaration order.
// Used by reports to emit counters in a stable order.
var RejectReasons = []RejectReason{
	ReasonNotProfileURL,
	ReasonBlockedPattern,
	ReasonInvalidTitle,
	ReasonDuplicate,
	ReasonCapacityReached,
}
