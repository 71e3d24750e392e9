package model

import "time"

// RunSummary is a summarized, human-readable view of a run.
// It extracts the record list and key statistics from the full report.
//
// Design decision: We create a separate summary rather than just printing
// parts of RunReport because:
// 1. It provides a consistent, curated view of what a run produced
// 2. It can be serialized to JSON for tools that want structured but simple output
// 3. It separates presentation concerns from data collection
type RunSummary struct {
	// Query is the search query the run executed.
	Query string `json:"query"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// ProvidersAttempted lists the engines consulted, in order.
	ProvidersAttempted []string `json:"providers_attempted,omitempty"`

	// PagesFetched is the number of result pages successfully rendered.
	PagesFetched int `json:"pages_fetched"`

	// CandidatesSeen is the number of candidates classified.
	CandidatesSeen int `json:"candidates_seen"`

	// AcceptedCount is the number of records in the result set.
	AcceptedCount int `json:"accepted_count"`

	// RejectedCount is the total number of rejected candidates.
	RejectedCount int `json:"rejected_count"`

	// Rejections counts rejected candidates per reason identifier.
	Rejections map[string]int `json:"rejections,omitempty"`

	// Saturated is true if the run stopped because the result set
	// reached its capacity bound.
	Saturated bool `json:"saturated"`

	// Records contains the accepted records in insertion order.
	Records []ProfileRecord `json:"records,omitempty"`

	// TimedOut indicates if the run was terminated by its deadline.
	TimedOut bool `json:"timed_out"`

	// Error contains any error message if the run failed.
	Error string `json:"error,omitempty"`
}

// NewRunSummary creates a RunSummary from a RunReport.
func NewRunSummary(report *RunReport) *RunSummary {
	summary := &RunSummary{
		Query:              report.Query,
		StartedAt:          report.StartedAt,
		ProvidersAttempted: report.ProvidersAttempted,
		PagesFetched:       report.PagesFetched,
		CandidatesSeen:     report.CandidatesSeen,
		RejectedCount:      report.RejectedCount(),
		TimedOut:           report.TimedOut,
		Error:              report.ErrorMessage,
	}

	if len(report.Rejections) > 0 {
		summary.Rejections = make(map[string]int, len(report.Rejections))
		for reason, n := range report.Rejections {
			summary.Rejections[reason] = n
		}
	}

	if report.Results != nil {
		summary.AcceptedCount = report.Results.Len()
		summary.Saturated = report.Results.Saturated()
		summary.Records = report.Results.Records()
	}

	return summary
}

// HasRecords returns true if the run produced any records.
func (s *RunSummary) HasRecords() bool {
	return len(s.Records) > 0
}
