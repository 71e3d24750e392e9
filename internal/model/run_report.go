package model

import "time"

// RunReport is the main per-run result structure.
// It accumulates everything observed while searching one query:
// which providers were consulted, how many pages were fetched, how
// candidates were classified, and the accepted records themselves.
//
// Design decision: We use a single large struct rather than many small ones
// to simplify serialization and database storage. Counters are updated
// through Observe so classification outcomes and statistics cannot drift
// apart.
type RunReport struct {
	// Query is the search query this run executed.
	Query string `json:"query"`

	// ProvidersAttempted lists the engines consulted, in order.
	ProvidersAttempted []string `json:"providers_attempted,omitempty"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run completed. Zero while in progress.
	FinishedAt time.Time `json:"finished_at"`

	// PagesFetched is the number of result pages successfully rendered.
	PagesFetched int `json:"pages_fetched"`

	// CandidatesSeen is the number of candidates fed to classification,
	// including rejected ones.
	CandidatesSeen int `json:"candidates_seen"`

	// Rejections counts rejected candidates per reason identifier.
	Rejections map[string]int `json:"rejections,omitempty"`

	// Results holds the accepted records. Excluded from JSON; the
	// serializable view is produced by NewRunSummary.
	Results *ResultSet `json:"-"`

	// StepsRun lists the pipeline steps that were actually executed.
	StepsRun []string `json:"steps_run,omitempty"`

	// TimedOut is true if the run was terminated by its deadline.
	TimedOut bool `json:"timed_out"`

	// Summary contains the condensed findings for human-readable output.
	Summary *RunSummary `json:"summary,omitempty"`

	// Err contains any error that occurred during the run.
	// Only set if the run failed or partially failed.
	Err error `json:"-"` // Excluded from JSON

	// ErrorMessage is the string representation of Err for serialization.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional
}

// NewRunReport creates a report for the given query with an empty result
// set bounded to maxResults records.
func NewRunReport(query string, maxResults int) *RunReport {
	return &RunReport{
		Query:      query,
		StartedAt:  time.Now(),
		Rejections: make(map[string]int),
		Results:    NewResultSet(maxResults),
	}
}

// ProviderAttempted records that an engine was consulted.
// Duplicate notifications for the same provider are ignored, so a
// provider that serves several pages is listed once.
func (r *RunReport) ProviderAttempted(p Provider) {
	name := p.String()
	for _, existing := range r.ProvidersAttempted {
		if existing == name {
			return
		}
	}
	r.ProvidersAttempted = append(r.ProvidersAttempted, name)
}

// Observe folds one classification outcome into the run counters.
// Capacity rejections are not counted as seen candidates: once the set
// saturates no classification work happens, and counting the short-circuit
// would inflate the rejection statistics with every remaining page element.
func (r *RunReport) Observe(outcome AcceptOutcome) {
	if outcome.Reason == ReasonCapacityReached {
		return
	}
	r.CandidatesSeen++
	if outcome.Accepted {
		return
	}
	if r.Rejections == nil {
		r.Rejections = make(map[string]int)
	}
	r.Rejections[outcome.Reason.String()]++
}

// AcceptedCount returns the number of accepted records.
func (r *RunReport) AcceptedCount() int {
	if r.Results == nil {
		return 0
	}
	return r.Results.Len()
}

// RejectedCount returns the total number of rejected candidates,
// excluding capacity short-circuits.
func (r *RunReport) RejectedCount() int {
	total := 0
	for _, n := range r.Rejections {
		total += n
	}
	return total
}

// SetError records a run failure for serialization.
func (r *RunReport) SetError(err error) {
	r.Err = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}

// Finish stamps the completion time.
func (r *RunReport) Finish() {
	r.FinishedAt = time.Now()
}
