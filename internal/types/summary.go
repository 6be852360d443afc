package types

import "time"

// Candidate outcome labels recorded in a run summary.
const (
	OutcomeProcessed = "processed"
	OutcomeFailed    = "failed"
	OutcomeDuplicate = "duplicate"
)

// CandidateResult is the per-id detail line of a run summary.
type CandidateResult struct {
	ProjectID string `json:"project_id"`
	Outcome   string `json:"outcome"`
	Reason    string `json:"reason,omitempty"`
}

// RunSummary is the sole output of a scrape job. Once the job has begun
// processing candidates it always completes with a summary; row-level
// failures are folded into the counters rather than surfaced as errors.
type RunSummary struct {
	Processed         int               `json:"processed"`
	Failed            int               `json:"failed"`
	SkippedDuplicates int               `json:"skipped_duplicates"`
	Sample            *TenderRecord     `json:"sample_record,omitempty"`
	Details           []CandidateResult `json:"details,omitempty"`
	SourceURL         string            `json:"source_url,omitempty"`
	StartedAt         time.Time         `json:"started_at"`
	FinishedAt        time.Time         `json:"finished_at"`
}

// RecordProcessed counts a persisted candidate and captures the first
// successful record as the summary's sample.
func (s *RunSummary) RecordProcessed(rec *TenderRecord) {
	s.Processed++
	if s.Sample == nil {
		s.Sample = rec
	}
	s.Details = append(s.Details, CandidateResult{
		ProjectID: rec.ProjectID,
		Outcome:   OutcomeProcessed,
	})
}

// RecordFailed counts a failed candidate with a human-readable reason.
func (s *RunSummary) RecordFailed(projectID, reason string) {
	s.Failed++
	s.Details = append(s.Details, CandidateResult{
		ProjectID: projectID,
		Outcome:   OutcomeFailed,
		Reason:    reason,
	})
}

// RecordDuplicate counts a candidate skipped because the store already
// holds its project id. Duplicates are reported distinctly from failures.
func (s *RunSummary) RecordDuplicate(projectID string) {
	s.SkippedDuplicates++
	s.Details = append(s.Details, CandidateResult{
		ProjectID: projectID,
		Outcome:   OutcomeDuplicate,
		Reason:    "already persisted",
	})
}

// FailureReasons returns the reason lines for failed candidates, for the
// error_details field of API responses.
func (s *RunSummary) FailureReasons() []string {
	var reasons []string
	for _, d := range s.Details {
		if d.Outcome == OutcomeFailed {
			reasons = append(reasons, "Project "+d.ProjectID+": "+d.Reason)
		}
	}
	return reasons
}
