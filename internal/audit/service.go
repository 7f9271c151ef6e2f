// Package audit runs the checklist-driven document audit through the
// structured-inference capability.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/datenschutzportal/auditcore/internal/checklist"
	"github.com/datenschutzportal/auditcore/internal/llm"
)

// Options tune the orchestrator's behavior.
type Options struct {
	// VerifyCheckIDs drops findings whose check_id is unknown to the
	// checklist or already seen in this result, with a warning log.
	// Off by default: the provider is trusted unless configured
	// otherwise.
	VerifyCheckIDs bool
}

// Service drives one audit: prompt composition, a single inference
// attempt, schema validation, and the always-answer failure policy.
type Service struct {
	inf      llm.Inferencer
	criteria *checklist.Store
	opts     Options
	logger   *slog.Logger
}

func NewService(inf llm.Inferencer, criteria *checklist.Store, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{inf: inf, criteria: criteria, opts: opts, logger: logger}
}

// Run audits the corpus against the current checklist. It never returns
// an error: any failure (provider, schema, decode) degrades to a
// well-formed Result with OverallStatus FAIL and an explanatory
// summary, so callers always have something to render.
func (s *Service) Run(ctx context.Context, corpusText string) Result {
	start := time.Now()
	criteria := s.criteria.Current()

	s.logger.Info("audit.run.start",
		"checks", len(criteria.Items),
		"corpus_len", len(corpusText),
	)

	user, err := buildUserPrompt(criteria.Items, corpusText)
	if err != nil {
		s.logger.Error("audit.run.prompt_error", "error", err)
		return Degraded("An error occurred during the automated audit: " + err.Error())
	}

	schema := BuildResultSchema()
	raw, err := s.inf.Infer(ctx, criteria.SystemPrompt, user, schema)
	if err != nil {
		s.logger.Error("audit.run.infer_error", "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return Degraded("An error occurred during the automated audit: " + err.Error())
	}

	raw = s.sanitizeFindings(raw)

	if err := llm.ValidateAgainstSchema(schema, raw); err != nil {
		s.logger.Error("audit.run.schema_error", "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return Degraded("The automated audit returned a malformed result: " + err.Error())
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		s.logger.Error("audit.run.decode_error", "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return Degraded("The automated audit returned an undecodable result: " + err.Error())
	}

	if s.opts.VerifyCheckIDs {
		result.Results = s.verifyFindings(criteria, result.Results)
	}

	s.logger.Info("audit.run.ok",
		"overall_status", result.OverallStatus,
		"findings", len(result.Results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result
}

// sanitizeFindings drops null or blank recommendation values from the
// per-check findings before the strict schema pass; an optional field
// the provider could not fill must not fail the whole run. Payloads
// that don't decode are returned unchanged for the validator to report.
func (s *Service) sanitizeFindings(raw []byte) []byte {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return raw
	}
	items, ok := m["results"].([]any)
	if !ok {
		return raw
	}

	var dropped []string
	for _, it := range items {
		entry, ok := it.(map[string]any)
		if !ok {
			continue
		}
		dropped = append(dropped, llm.DropNullOptionals(entry, []string{"recommendation"})...)
	}
	if len(dropped) == 0 {
		return raw
	}

	out, err := json.Marshal(m)
	if err != nil {
		return raw
	}
	s.logger.Warn("audit.findings_sanitized", "fields", dropped)
	return out
}

// verifyFindings prunes findings the checklist cannot account for:
// unknown check ids and duplicates (first occurrence wins).
func (s *Service) verifyFindings(criteria checklist.Criteria, findings []CheckResult) []CheckResult {
	seen := make(map[string]struct{}, len(findings))
	kept := make([]CheckResult, 0, len(findings))
	for _, f := range findings {
		if !criteria.HasID(f.CheckID) {
			s.logger.Warn("audit.finding_unknown_id", "check_id", f.CheckID)
			continue
		}
		if _, dup := seen[f.CheckID]; dup {
			s.logger.Warn("audit.finding_duplicate_id", "check_id", f.CheckID)
			continue
		}
		seen[f.CheckID] = struct{}{}
		kept = append(kept, f)
	}
	return kept
}

// buildUserPrompt serializes the checklist as an ordered JSON list and
// appends the corpus verbatim. Deterministic for a given checklist and
// corpus.
func buildUserPrompt(items []checklist.Item, corpusText string) (string, error) {
	serialized, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize checklist: %w", err)
	}
	return "Bitte prüfe die folgenden Dokumenteninhalte gegen die Checkliste.\n\n" +
		"Checkliste:\n" + string(serialized) + "\n\n" +
		"Dokumenteninhalte:\n" + corpusText, nil
}
