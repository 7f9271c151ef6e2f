package audit

import "github.com/datenschutzportal/auditcore/constants"

// CheckResult is one per-check finding in an audit.
type CheckResult struct {
	CheckID        string `json:"check_id"`
	Status         string `json:"status"` // PASS | FAIL | WARNING | UNKNOWN
	Findings       string `json:"findings"`
	Recommendation string `json:"recommendation,omitempty"`
}

// Result is the full audit outcome. The pipeline guarantees callers
// always receive one: failures degrade into a well-formed Result with
// OverallStatus FAIL instead of an error.
type Result struct {
	Summary       string        `json:"summary"`
	Results       []CheckResult `json:"results"`
	OverallStatus string        `json:"overall_status"` // PASS | NEEDS_IMPROVEMENT | FAIL
}

// Degraded builds the failure-shaped result used when the audit cannot
// be completed. Findings stay empty; no per-check outcomes are invented
// for a run that never happened.
func Degraded(summary string) Result {
	return Result{
		Summary:       summary,
		Results:       []CheckResult{},
		OverallStatus: string(constants.OverallFail),
	}
}
