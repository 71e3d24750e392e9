package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/profscan/profscan/internal/model"
)

// createTestReport creates a report with sample data for testing.
func createTestReport() *model.RunReport {
	report := model.NewRunReport("golang engineer", 30)
	report.ProviderAttempted(model.ProviderGoogle)
	report.PagesFetched = 2
	report.CandidatesSeen = 5
	report.Rejections = map[string]int{
		"not_a_profile_url": 2,
		"duplicate":         1,
	}
	report.Results.Add(model.ProfileRecord{
		CanonicalURL: "https://www.linkedin.com/in/jane-doe",
		Title:        "Jane Doe - Software Engineer",
		ObservedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	})
	report.Results.Add(model.ProfileRecord{
		CanonicalURL: "https://uk.linkedin.com/in/john-smith",
		Title:        "John Smith - Engineering Manager",
		ObservedAt:   time.Date(2026, 8, 1, 12, 0, 5, 0, time.UTC),
	})
	report.Finish()
	report.Summary = model.NewRunSummary(report)

	return report
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "PROFSCAN REPORT") {
			t.Error("expected output to contain header")
		}
		if !strings.Contains(output, "golang engineer") {
			t.Error("expected output to contain query")
		}
		if !strings.Contains(output, "google") {
			t.Error("expected output to contain provider")
		}
	})

	t.Run("writes classification summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "CLASSIFICATION SUMMARY") {
			t.Error("expected output to contain classification summary")
		}
		if !strings.Contains(output, "Accepted:        2") {
			t.Error("expected output to contain accepted count")
		}
	})

	t.Run("writes profile records in insertion order", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		jane := strings.Index(output, "Jane Doe - Software Engineer")
		john := strings.Index(output, "John Smith - Engineering Manager")
		if jane < 0 || john < 0 {
			t.Fatal("expected both records in output")
		}
		if jane > john {
			t.Error("expected records in insertion order")
		}
		if !strings.Contains(output, "https://www.linkedin.com/in/jane-doe") {
			t.Error("expected canonical URL in output")
		}
	})

	t.Run("writes rejection breakdown", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "REJECTIONS") {
			t.Error("expected output to contain rejections section")
		}
		if !strings.Contains(output, "not_a_profile_url") {
			t.Error("expected output to contain rejection reason")
		}
	})

	t.Run("verbose mode includes observation times", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "observed") {
			t.Error("expected verbose output to contain observation times")
		}
	})

	t.Run("handles timed out report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := createTestReport()
		report.TimedOut = true
		report.Summary = model.NewRunSummary(report)

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "TIMED OUT") {
			t.Error("expected output to indicate timeout")
		}
	})

	t.Run("shows error in status", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := model.NewRunReport("empty query", 30)
		report.Summary = model.NewRunSummary(report)
		report.Summary.Error = "engine blocked"

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "ERROR") {
			t.Error("expected ERROR in status")
		}
		if !strings.Contains(output, "engine blocked") {
			t.Error("expected error message in output")
		}
	})

	t.Run("shows empty sections with showEmpty", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithShowEmpty(true))
		report := model.NewRunReport("empty query", 30)
		report.Summary = model.NewRunSummary(report)

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "No profiles found") {
			t.Error("expected 'No profiles found' message")
		}
		if !strings.Contains(output, "No rejections") {
			t.Error("expected 'No rejections' message")
		}
	})

	t.Run("hides empty sections without showEmpty", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := model.NewRunReport("empty query", 30)
		report.Summary = model.NewRunSummary(report)

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if strings.Contains(output, "No profiles found") {
			t.Error("should not show 'No profiles found' without showEmpty")
		}
	})

	t.Run("generates summary when missing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		report := model.NewRunReport("generate summary", 30)
		report.Summary = nil

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "generate summary") {
			t.Error("expected query in output")
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed model.RunReport
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if parsed.Query != "golang engineer" {
			t.Errorf("expected query %q, got %q", "golang engineer", parsed.Query)
		}
		if parsed.Summary == nil || parsed.Summary.AcceptedCount != 2 {
			t.Error("expected summary with accepted count 2")
		}
	})

	t.Run("compact output by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) > 1 {
			t.Errorf("expected compact output (1 line), got %d lines", len(lines))
		}
	})

	t.Run("pretty print with indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) < 5 {
			t.Errorf("expected multi-line output, got %d lines", len(lines))
		}
	})

	t.Run("WithIndent uses custom prefix and indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithIndent(">>", "\t"))
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, ">>") {
			t.Error("expected custom prefix '>>' in output")
		}
		if !strings.Contains(output, "\t") {
			t.Error("expected tab indentation in output")
		}
	})

	t.Run("WriteSummary outputs run summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)
		summary := &model.RunSummary{
			Query:         "direct summary",
			StartedAt:     time.Now(),
			AcceptedCount: 3,
		}

		_, err := w.WriteSummary(summary)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed model.RunSummary
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if parsed.AcceptedCount != 3 {
			t.Errorf("expected accepted count 3, got %d", parsed.AcceptedCount)
		}
	})
}

// TestFullJSONWriter tests the full JSON writer with metadata.
func TestFullJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("includes version in output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewFullJSONWriter(&buf, "1.0.0", WithPrettyPrint())
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var parsed JSONReport
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}

		if parsed.Version != "1.0.0" {
			t.Errorf("expected version %q, got %q", "1.0.0", parsed.Version)
		}
		if parsed.Report == nil {
			t.Error("expected wrapped report")
		}
	})
}

// TestMultiWriter tests writing to multiple outputs.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var buf1, buf2 bytes.Buffer
		w1 := NewSimpleWriter(&buf1)
		w2 := NewJSONWriter(&buf2)

		multi := NewMultiWriter(w1, w2)
		report := createTestReport()

		_, err := multi.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if buf1.Len() == 0 {
			t.Error("expected buf1 to have content")
		}
		if buf2.Len() == 0 {
			t.Error("expected buf2 to have content")
		}

		// Verify formats are different
		if strings.Contains(buf1.String(), "{") {
			t.Error("expected buf1 (simple) to not be JSON")
		}
		if !strings.Contains(buf2.String(), "{") {
			t.Error("expected buf2 (JSON) to contain JSON")
		}
	})

	t.Run("handles empty writers list", func(t *testing.T) {
		t.Parallel()

		multi := NewMultiWriter()
		summary := &model.RunSummary{Query: "empty writers"}

		n, err := multi.WriteSummary(summary)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 bytes written for empty writers, got %d", n)
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# Profscan Report") {
			t.Error("expected output to contain H1 header")
		}
		if !strings.Contains(output, "golang engineer") {
			t.Error("expected output to contain query")
		}
	})

	t.Run("writes classification summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "## Classification Summary") {
			t.Error("expected output to contain classification summary header")
		}
		if !strings.Contains(output, "not_a_profile_url") {
			t.Error("expected output to contain rejection reason")
		}
	})

	t.Run("writes profile table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "## Profiles") {
			t.Error("expected output to contain profiles header")
		}
		if !strings.Contains(output, "https://uk.linkedin.com/in/john-smith") {
			t.Error("expected output to contain canonical URLs")
		}
	})

	t.Run("includes pie chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "pie") {
			t.Error("expected output to contain mermaid pie chart")
		}
	})

	t.Run("includes TIP alert for successful run", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "[!TIP]") {
			t.Error("expected TIP alert for successful run")
		}
	})

	t.Run("includes IMPORTANT alert when nothing accepted", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := model.NewRunReport("no results", 30)
		report.CandidatesSeen = 8
		report.Summary = model.NewRunSummary(report)

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[!IMPORTANT]") {
			t.Error("expected IMPORTANT alert when nothing was accepted")
		}
		if !strings.Contains(output, "No profiles found.") {
			t.Error("expected no-profiles message")
		}
	})

	t.Run("handles timed out report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()
		report.TimedOut = true
		report.Summary = model.NewRunSummary(report)

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "Timed Out") {
			t.Error("expected output to indicate timeout")
		}
	})

	t.Run("writes footer with link", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		report := createTestReport()

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "https://github.com/profscan/profscan") {
			t.Error("expected footer with repository link")
		}
	})
}

// TestCSVWriter tests the CSV record export.
func TestCSVWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and records in order", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewCSVWriter(&buf)
		report := createTestReport()

		n, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, buffer has %d", n, buf.Len())
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
		}
		if lines[0] != "title,link,scraped_at" {
			t.Errorf("header = %q, expected %q", lines[0], "title,link,scraped_at")
		}
		expected := "Jane Doe - Software Engineer,https://www.linkedin.com/in/jane-doe,2026-08-01T12:00:00Z"
		if lines[1] != expected {
			t.Errorf("row 1 = %q, expected %q", lines[1], expected)
		}
		if !strings.Contains(lines[2], "john-smith") {
			t.Errorf("row 2 = %q, expected john-smith record", lines[2])
		}
	})

	t.Run("writes header only for empty run", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewCSVWriter(&buf)
		report := model.NewRunReport("no results", 30)

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.TrimSpace(buf.String()) != "title,link,scraped_at" {
			t.Errorf("expected header only, got %q", buf.String())
		}
	})

	t.Run("quotes titles containing commas", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewCSVWriter(&buf)
		report := model.NewRunReport("quoting", 30)
		report.Results.Add(model.ProfileRecord{
			CanonicalURL: "https://www.linkedin.com/in/jane-doe",
			Title:        "Jane Doe, PhD",
			ObservedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		})
		report.Summary = model.NewRunSummary(report)

		_, err := w.Write(report)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), `"Jane Doe, PhD"`) {
			t.Errorf("expected quoted title, got %q", buf.String())
		}
	})
}

// TestWriteCSVFile tests the file export including overwrite semantics.
func TestWriteCSVFile(t *testing.T) {
	t.Parallel()

	t.Run("creates the export file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "profiles.csv")
		report := createTestReport()

		if err := WriteCSVFile(path, report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading export: %v", err)
		}
		if !strings.HasPrefix(string(data), "title,link,scraped_at\n") {
			t.Errorf("expected header row, got %q", string(data))
		}
	})

	t.Run("overwrites a previous export", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "profiles.csv")
		if err := os.WriteFile(path, []byte(strings.Repeat("x", 4096)), 0o644); err != nil {
			t.Fatalf("seeding file: %v", err)
		}

		report := model.NewRunReport("overwrite", 30)
		report.Summary = model.NewRunSummary(report)
		if err := WriteCSVFile(path, report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading export: %v", err)
		}
		if strings.Contains(string(data), "xxxx") {
			t.Error("expected previous content to be truncated")
		}
	})
}

// TestTruncateString tests the string truncation helper.
func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a longer string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"ab", 5, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			result := truncateString(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("truncateString(%q, %d) = %q, want %q",
					tt.input, tt.maxLen, result, tt.expected)
			}
		})
	}
}
