// Package pipeline wires the request flow: admission gate, extraction,
// normalization, inference and rendering.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/datenschutzportal/auditcore/internal/audit"
	"github.com/datenschutzportal/auditcore/internal/common"
	"github.com/datenschutzportal/auditcore/internal/corpus"
	"github.com/datenschutzportal/auditcore/internal/ingest"
	"github.com/datenschutzportal/auditcore/internal/ratelimit"
)

// AuditPipeline runs the full audit chain for one request:
// rate limiter → file source → extraction/normalization → audit →
// report markdown. Each request is one sequential flow; concurrency
// happens across requests, not inside one.
type AuditPipeline struct {
	Files   ingest.FileSource
	Corpus  *corpus.Builder
	Auditor *audit.Service
	Limiter *ratelimit.Limiter
	Logger  *slog.Logger
}

// AuditOutcome bundles what the caller persists and renders.
type AuditOutcome struct {
	Result         audit.Result
	ReportMarkdown string
	Rejected       []ingest.Rejection
}

// Run executes one audit request for clientID over projectID's files.
// Admission denial and empty-corpus failures return errors; once
// inference starts, the audit service's always-answer contract applies
// and the outcome is well-formed even on provider failure.
func (p *AuditPipeline) Run(ctx context.Context, clientID, projectID, manualText string) (AuditOutcome, error) {
	rid := uuid.New().String()
	ctx = common.WithRequestID(ctx, rid)
	if clientID == "" {
		clientID = common.ClientIDFromContext(ctx)
	}

	if err := p.Limiter.Admit(clientID); err != nil {
		return AuditOutcome{}, err
	}

	docs, rejected, err := p.Files.Resolve(ctx, projectID)
	if err != nil {
		return AuditOutcome{}, fmt.Errorf("resolve project files: %w", err)
	}

	p.Logger.Info("pipeline.audit.start",
		"req_id", rid,
		"project_id", projectID,
		"files", len(docs),
		"rejected", len(rejected),
	)

	text, err := p.Corpus.Build(ctx, docs, manualText)
	if err != nil {
		if errors.Is(err, common.ErrEmptyCorpus) {
			// Nothing to analyze; don't waste the provider call.
			p.Logger.Error("pipeline.audit.empty_corpus", "project_id", projectID)
		}
		return AuditOutcome{Rejected: rejected}, err
	}

	result := p.Auditor.Run(ctx, text)

	return AuditOutcome{
		Result:         result,
		ReportMarkdown: audit.ReportMarkdown(result, time.Now()),
		Rejected:       rejected,
	}, nil
}
