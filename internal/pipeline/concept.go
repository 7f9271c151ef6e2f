package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/datenschutzportal/auditcore/internal/common"
	"github.com/datenschutzportal/auditcore/internal/concept"
	"github.com/datenschutzportal/auditcore/internal/corpus"
	"github.com/datenschutzportal/auditcore/internal/extract"
	"github.com/datenschutzportal/auditcore/internal/ratelimit"
	"github.com/datenschutzportal/auditcore/internal/repository"
)

// ConceptPipeline runs record extraction and concept generation.
// Extraction is throttled by its own (stricter) limiter since it fans
// out over every uploaded file.
type ConceptPipeline struct {
	Corpus          *corpus.Builder
	Concepts        *concept.Service
	Repo            repository.ConceptRepository
	ExtractLimiter  *ratelimit.Limiter
	GenerateLimiter *ratelimit.Limiter
	Logger          *slog.Logger
}

// RunExtraction normalizes the inputs and extracts the study record.
// Unlike the audit path, every failure propagates: an invented record
// would be worse than no record.
func (p *ConceptPipeline) RunExtraction(ctx context.Context, clientID string, docs []extract.SourceDocument, manualText string) (concept.StudyRecord, []byte, error) {
	ctx = common.WithRequestID(ctx, uuid.New().String())
	if clientID == "" {
		clientID = common.ClientIDFromContext(ctx)
	}
	if err := p.ExtractLimiter.Admit(clientID); err != nil {
		return concept.StudyRecord{}, nil, err
	}

	text, err := p.Corpus.Build(ctx, docs, manualText)
	if err != nil {
		return concept.StudyRecord{}, nil, err
	}

	return p.Concepts.ExtractData(ctx, text)
}

// RunGeneration produces the concept markdown for an extracted record.
func (p *ConceptPipeline) RunGeneration(ctx context.Context, clientID string, rec concept.StudyRecord) (string, error) {
	ctx = common.WithRequestID(ctx, uuid.New().String())
	if clientID == "" {
		clientID = common.ClientIDFromContext(ctx)
	}
	if err := p.GenerateLimiter.Admit(clientID); err != nil {
		return "", err
	}
	return p.Concepts.GenerateConcept(ctx, rec)
}

// Save persists an extracted record with its generated markdown and
// returns the stored id. An empty sessionID falls back to the session
// travelling in the context, if any.
func (p *ConceptPipeline) Save(ctx context.Context, rawRecord []byte, markdown, sessionID string) (string, error) {
	if sessionID == "" {
		sessionID = common.SessionIDFromContext(ctx)
	}
	id, err := p.Repo.Save(ctx, rawRecord, markdown, sessionID)
	if err != nil {
		return "", fmt.Errorf("save concept: %w", err)
	}
	p.Logger.Info("pipeline.concept.saved", "id", id)
	return id, nil
}
