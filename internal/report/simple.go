package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/profscan/profscan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
// It generates a RunSummary from the RunReport if not already present.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	summary := report.Summary
	if summary == nil {
		summary = model.NewRunSummary(report)
	}

	return w.WriteSummary(summary)
}

// WriteSummary outputs the run summary in human-readable format.
func (w *SimpleWriter) WriteSummary(summary *model.RunSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeStats(&sb, summary)
	w.writeRecords(&sb, summary)
	w.writeRejections(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.RunSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         PROFSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Query:         %s\n", summary.Query))
	sb.WriteString(fmt.Sprintf("Run Date:      %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST")))
	if len(summary.ProvidersAttempted) > 0 {
		sb.WriteString(fmt.Sprintf("Providers:     %s\n", strings.Join(summary.ProvidersAttempted, ", ")))
	}
	sb.WriteString(fmt.Sprintf("Pages Fetched: %d\n", summary.PagesFetched))

	switch {
	case summary.TimedOut:
		sb.WriteString("Status:        TIMED OUT (partial results)\n")
	case summary.Error != "":
		sb.WriteString(fmt.Sprintf("Status:        ERROR - %s\n", summary.Error))
	case summary.Saturated:
		sb.WriteString("Status:        Complete (result cap reached)\n")
	default:
		sb.WriteString("Status:        Complete\n")
	}

	sb.WriteString("\n")
}

// writeStats writes the classification statistics section.
func (w *SimpleWriter) writeStats(sb *strings.Builder, summary *model.RunSummary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CLASSIFICATION SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Candidates seen: %d\n", summary.CandidatesSeen))
	sb.WriteString(fmt.Sprintf("  Accepted:        %d\n", summary.AcceptedCount))
	sb.WriteString(fmt.Sprintf("  Rejected:        %d\n", summary.RejectedCount))
	sb.WriteString("\n")
}

// writeRecords writes the accepted profile records in insertion order.
func (w *SimpleWriter) writeRecords(sb *strings.Builder, summary *model.RunSummary) {
	if !summary.HasRecords() && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("PROFILES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if !summary.HasRecords() {
		sb.WriteString("  No profiles found\n")
	} else {
		for i, record := range summary.Records {
			sb.WriteString(fmt.Sprintf("  %2d. %s\n", i+1, record.Title))
			sb.WriteString(fmt.Sprintf("      %s\n", record.CanonicalURL))
			if w.verbose {
				sb.WriteString(fmt.Sprintf("      observed %s\n",
					record.ObservedAt.Format("2006-01-02 15:04:05 MST")))
			}
		}
	}
	sb.WriteString("\n")
}

// writeRejections writes the rejection breakdown, most frequent first.
func (w *SimpleWriter) writeRejections(sb *strings.Builder, summary *model.RunSummary) {
	if len(summary.Rejections) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("REJECTIONS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(summary.Rejections) == 0 {
		sb.WriteString("  No rejections\n")
	} else {
		for _, reason := range sortedReasons(summary.Rejections) {
			sb.WriteString(fmt.Sprintf("  %-20s %d\n", reason, summary.Rejections[reason]))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by profscan\n")
	sb.WriteString("https://github.com/profscan/profscan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// sortedReasons orders rejection reasons by descending count, then by name
// for a stable listing.
func sortedReasons(rejections map[string]int) []string {
	reasons := make([]string, 0, len(rejections))
	for reason := range rejections {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool {
		if rejections[reasons[i]] != rejections[reasons[j]] {
			return rejections[reasons[i]] > rejections[reasons[j]]
		}
		return reasons[i] < reasons[j]
	})
	return reasons
}
