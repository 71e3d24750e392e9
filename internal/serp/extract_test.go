package serp

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/profscan/profscan/internal/model"
)

// TestExtractCandidates tests candidate extraction from result markup.
func TestExtractCandidates(t *testing.T) {
	t.Parallel()

	t.Run("pairs anchors with heading text", func(t *testing.T) {
		t.Parallel()

		// Shape of a Google result block: anchor wrapping an h3 title
		content := `<html><body><div id="search">
			<div class="g">
				<a href="https://www.linkedin.com/in/jane-doe?trk=x">
					<h3>Jane Doe - Software Engineer</h3>
					<span>linkedin.com</span>
				</a>
			</div>
			<div class="g">
				<a href="https://uk.linkedin.com/in/john-s"><h3>John Smith</h3></a>
			</div>
		</div></body></html>`

		candidates, err := ExtractCandidates(strings.NewReader(content), model.ProviderGoogle, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := []model.Candidate{
			{
				RawURL:     "https://www.linkedin.com/in/jane-doe?trk=x",
				RawText:    "Jane Doe - Software Engineer",
				SourcePage: 2,
				Provider:   model.ProviderGoogle,
			},
			{
				RawURL:     "https://uk.linkedin.com/in/john-s",
				RawText:    "John Smith",
				SourcePage: 2,
				Provider:   model.ProviderGoogle,
			},
		}
		if diff := cmp.Diff(expected, candidates); diff != "" {
			t.Errorf("candidates mismatch (-expected +got):\n%s", diff)
		}
	})

	t.Run("falls back to anchor text without heading", func(t *testing.T) {
		t.Parallel()

		content := `<html><body>
			<a href="https://www.bing.com/search?q=x&first=11">Next page</a>
		</body></html>`

		candidates, err := ExtractCandidates(strings.NewReader(content), model.ProviderBing, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(candidates) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(candidates))
		}
		if candidates[0].RawText != "Next page" {
			t.Errorf("RawText = %q, expected %q", candidates[0].RawText, "Next page")
		}
	})

	t.Run("skips anchors without usable href", func(t *testing.T) {
		t.Parallel()

		content := `<html><body>
			<a>no href</a>
			<a href="#">fragment only</a>
			<a href="javascript:void(0)">script link</a>
			<a href="mailto:someone@example.com">mail</a>
			<a href="https://www.linkedin.com/in/kept">Kept Person</a>
		</body></html>`

		candidates, err := ExtractCandidates(strings.NewReader(content), model.ProviderGoogle, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(candidates) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(candidates))
		}
		if candidates[0].RawURL != "https://www.linkedin.com/in/kept" {
			t.Errorf("RawURL = %q", candidates[0].RawURL)
		}
	})

	t.Run("normalizes whitespace in text", func(t *testing.T) {
		t.Parallel()

		content := "<html><body><a href=\"https://example.com\"><h3>\n\tJane\n  Doe\t</h3></a></body></html>"

		candidates, err := ExtractCandidates(strings.NewReader(content), model.ProviderGoogle, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(candidates) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(candidates))
		}
		if candidates[0].RawText != "Jane Doe" {
			t.Errorf("RawText = %q, expected %q", candidates[0].RawText, "Jane Doe")
		}
	})

	t.Run("empty document yields no candidates", func(t *testing.T) {
		t.Parallel()

		candidates, err := ExtractCandidates(strings.NewReader(""), model.ProviderGoogle, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(candidates) != 0 {
			t.Errorf("expected no candidates, got %d", len(candidates))
		}
	})
}
