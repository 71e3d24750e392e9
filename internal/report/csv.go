package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/profscan/profscan/internal/model"
)

// csvHeader is the fixed column order of the record export.
var csvHeader = []string{"title", "link", "scraped_at"}

// CSVWriter outputs accepted profile records as CSV.
// The format is a three-column export (title, link, scraped_at) with
// records in insertion order and timestamps in RFC 3339.
//
// Design decision: Unlike the other writers, CSV carries only the records,
// not the run statistics. The export is the machine-readable product of a
// run; statistics belong to the report formats.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report's accepted records as CSV.
// The header row is always written, even when there are no records.
func (w *CSVWriter) Write(report *model.RunReport) (int, error) {
	summary := report.Summary
	if summary == nil {
		summary = model.NewRunSummary(report)
	}

	return w.WriteSummary(summary)
}

// WriteSummary outputs the summary's records as CSV.
func (w *CSVWriter) WriteSummary(summary *model.RunSummary) (int, error) {
	counter := &countingWriter{w: w.output}
	cw := csv.NewWriter(counter)

	if err := cw.Write(csvHeader); err != nil {
		return counter.n, err
	}

	for _, record := range summary.Records {
		row := []string{
			record.Title,
			record.CanonicalURL,
			record.ObservedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return counter.n, err
		}
	}

	cw.Flush()
	return counter.n, cw.Error()
}

// WriteCSVFile writes a run's records to the given file path.
// The file is created if missing and truncated if present; each run
// replaces the previous export rather than appending to it.
func WriteCSVFile(path string, report *model.RunReport) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open csv output: %w", err)
	}

	_, werr := NewCSVWriter(f).Write(report)
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("write csv output: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("close csv output: %w", cerr)
	}
	return nil
}

// countingWriter tracks bytes written so CSVWriter can satisfy the
// Writer interface's byte count contract through encoding/csv.
type countingWriter struct {
	w io.Writer
	n int
}

// Write implements io.Writer.
func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
