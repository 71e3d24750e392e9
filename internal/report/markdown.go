package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/profscan/profscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	summary := report.Summary
	if summary == nil {
		summary = model.NewRunSummary(report)
	}

	return w.WriteSummary(summary)
}

// WriteSummary outputs the run summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeClassification(md, summary)
	w.writeRecords(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.RunSummary) {
	md.H1("Profscan Report")
	md.PlainText("")

	providers := "-"
	if len(summary.ProvidersAttempted) > 0 {
		providers = strings.Join(summary.ProvidersAttempted, ", ")
	}

	// Basic info table
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Query", "`" + summary.Query + "`"},
			{"Run Date", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Providers", providers},
			{"Pages Fetched", strconv.Itoa(summary.PagesFetched)},
			{"Status", w.getStatusText(summary)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on summary state.
func (w *MarkdownWriter) getStatusText(summary *model.RunSummary) string {
	switch {
	case summary.TimedOut:
		return "⚠️ Timed Out (partial results)"
	case summary.Error != "":
		return "❌ Error - " + summary.Error
	case summary.Saturated:
		return "✅ Complete (result cap reached)"
	default:
		return "✅ Complete"
	}
}

// writeClassification writes the classification summary section.
func (w *MarkdownWriter) writeClassification(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Classification Summary")
	md.PlainText("")

	rows := [][]string{
		{"Candidates Seen", strconv.Itoa(summary.CandidatesSeen)},
		{"Accepted", strconv.Itoa(summary.AcceptedCount)},
		{"Rejected", strconv.Itoa(summary.RejectedCount)},
	}
	for _, reason := range sortedReasons(summary.Rejections) {
		rows = append(rows, []string{
			"Rejected: `" + reason + "`",
			strconv.Itoa(summary.Rejections[reason]),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	// Add pie chart if anything was classified
	if summary.CandidatesSeen > 0 {
		w.writePieChart(md, summary)
	}

	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart for classification outcomes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.RunSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Candidate Classification"),
		piechart.WithShowData(true),
	)

	if summary.AcceptedCount > 0 {
		chart.LabelAndIntValue("accepted", uint64(summary.AcceptedCount))
	}
	for _, reason := range sortedReasons(summary.Rejections) {
		chart.LabelAndIntValue(reason, uint64(summary.Rejections[reason]))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the run outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.RunSummary) {
	switch {
	case summary.Error != "":
		md.Warningf("The run failed: %s. Results below are partial.", summary.Error)
	case summary.TimedOut:
		md.Warningf("The run was cut short after %d page(s). Results below are partial.", summary.PagesFetched)
	case !summary.HasRecords():
		md.Importantf(
			"No profiles were accepted from %d candidate(s). Try a broader query or another provider.",
			summary.CandidatesSeen,
		)
	case summary.Saturated:
		md.Note("The result cap was reached; further pages were not fetched.")
	default:
		md.Tip(fmt.Sprintf("%d profile(s) collected.", summary.AcceptedCount))
	}
	md.PlainText("")
}

// writeRecords writes the accepted profiles in insertion order.
func (w *MarkdownWriter) writeRecords(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Profiles")
	md.PlainText("")

	if !summary.HasRecords() {
		md.PlainText("No profiles found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Records))
	for i, record := range summary.Records {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			truncateString(record.Title, 60),
			record.CanonicalURL,
			record.ObservedAt.Format("2006-01-02 15:04"),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "Title", "Profile URL", "Observed"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [profscan](https://github.com/profscan/profscan)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
