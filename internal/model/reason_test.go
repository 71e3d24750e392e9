package model

import "testing"

// TestRejectReasonString tests the String method of RejectReason.
func TestRejectReasonString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		reason   RejectReason
		expected string
	}{
		{ReasonNone, "accepted"},
		{ReasonNotProfileURL, "not_a_profile_url"},
		{ReasonBlockedPattern, "blocked_pattern"},
		{ReasonInvalidTitle, "invalid_title"},
		{ReasonDuplicate, "duplicate"},
		{ReasonCapacityReached, "capacity_reached"},
		{RejectReason(999), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.reason.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.reason.String(), tc.expected)
			}
		})
	}
}

// TestRejectReasonsCompleteness tests that RejectReasons covers every
// rejection reason exactly once and excludes ReasonNone.
func TestRejectReasonsCompleteness(t *testing.T) {
	t.Parallel()

	seen := make(map[RejectReason]bool, len(RejectReasons))
	for _, r := range RejectReasons {
		if r == ReasonNone {
			t.Error("RejectReasons must not include ReasonNone")
		}
		if seen[r] {
			t.Errorf("duplicate reason %v in RejectReasons", r)
		}
		seen[r] = true
	}

	if len(RejectReasons) != 5 {
		t.Errorf("expected 5 rejection reasons, got %d", len(RejectReasons))
	}
}
