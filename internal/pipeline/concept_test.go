package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datenschutzportal/auditcore/internal/common"
	"github.com/datenschutzportal/auditcore/internal/concept"
	"github.com/datenschutzportal/auditcore/internal/corpus"
	"github.com/datenschutzportal/auditcore/internal/extract"
	"github.com/datenschutzportal/auditcore/internal/ratelimit"
	"github.com/datenschutzportal/auditcore/internal/repository"
)

func studyRecordJSON(t *testing.T) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"study_title":            "Retrospektive Registerstudie",
		"study_type":             "retrospektiv",
		"principal_investigator": "Prof. Muster",
		"institution":            "Universitätsmedizin Frankfurt",
		"study_goal":             "Analyse von Bestandsdaten",
		"data_types":             []string{"Diagnosen"},
		"patient_count":          "200",
		"data_sources":           []string{"Orbis"},
		"processing_methods":     "Statistik",
		"pseudonymization_usage": true,
		"external_data_sharing":  false,
	})
	require.NoError(t, err)
	return raw
}

func newConceptPipeline(t *testing.T, inf *fakeInferencer, extractLimit, generateLimit int) *ConceptPipeline {
	t.Helper()
	logger := slog.Default()
	repo, err := repository.Open(filepath.Join(t.TempDir(), "concepts.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return &ConceptPipeline{
		Corpus:          corpus.NewBuilder(passthroughExtractor{}, logger),
		Concepts:        concept.NewService(inf, logger),
		Repo:            repo,
		ExtractLimiter:  ratelimit.NewLimiter(extractLimit, logger),
		GenerateLimiter: ratelimit.NewLimiter(generateLimit, logger),
		Logger:          logger,
	}
}

func TestConceptPipeline_ExtractGenerateSave(t *testing.T) {
	inf := &fakeInferencer{payload: studyRecordJSON(t)}
	p := newConceptPipeline(t, inf, 5, 3)
	ctx := context.Background()

	docs := []extract.SourceDocument{{Name: "antrag.pdf", Content: []byte("Antragstext"), Ext: "pdf"}}
	rec, raw, err := p.RunExtraction(ctx, "client-1", docs, "")
	require.NoError(t, err)
	require.Equal(t, "Retrospektive Registerstudie", rec.StudyTitle)
	require.JSONEq(t, string(studyRecordJSON(t)), string(raw))
	// Optional fields filled by the documented defaults.
	require.Equal(t, concept.DefaultStorageLocation, rec.StorageLocation)

	inf.payload = []byte("# Datenschutzkonzept\n\nInhalt")
	md, err := p.RunGeneration(ctx, "client-1", rec)
	require.NoError(t, err)
	require.Contains(t, md, "# Datenschutzkonzept")

	id, err := p.Save(ctx, raw, md, "sitzung-9")
	require.NoError(t, err)

	stored, err := p.Repo.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, md, stored.ConceptMarkdown)
	require.Equal(t, "sitzung-9", stored.SessionID.String)
}

func TestConceptPipeline_ExtractionErrorsPropagate(t *testing.T) {
	inf := &fakeInferencer{err: fmt.Errorf("status 500: %w", common.ErrProvider)}
	p := newConceptPipeline(t, inf, 5, 3)

	docs := []extract.SourceDocument{{Name: "antrag.pdf", Content: []byte("Text"), Ext: "pdf"}}
	_, _, err := p.RunExtraction(context.Background(), "c", docs, "")
	require.ErrorIs(t, err, common.ErrProvider)
}

func TestConceptPipeline_SchemaErrorPropagates(t *testing.T) {
	inf := &fakeInferencer{payload: []byte(`{"study_title":"nur Titel"}`)}
	p := newConceptPipeline(t, inf, 5, 3)

	docs := []extract.SourceDocument{{Name: "antrag.pdf", Content: []byte("Text"), Ext: "pdf"}}
	_, _, err := p.RunExtraction(context.Background(), "c", docs, "")
	require.ErrorIs(t, err, common.ErrSchemaValidation)
}

func TestConceptPipeline_LimitersAreIndependent(t *testing.T) {
	inf := &fakeInferencer{payload: studyRecordJSON(t)}
	p := newConceptPipeline(t, inf, 1, 1)
	ctx := context.Background()

	docs := []extract.SourceDocument{{Name: "a.pdf", Content: []byte("Text"), Ext: "pdf"}}
	rec, _, err := p.RunExtraction(ctx, "c", docs, "")
	require.NoError(t, err)

	// Extraction budget is spent; generation still admits.
	_, _, err = p.RunExtraction(ctx, "c", docs, "")
	require.ErrorIs(t, err, common.ErrRateLimited)

	inf.payload = []byte("markdown")
	_, err = p.RunGeneration(ctx, "c", rec)
	require.NoError(t, err)

	_, err = p.RunGeneration(ctx, "c", rec)
	require.ErrorIs(t, err, common.ErrRateLimited)
}

func TestConceptPipeline_SessionFromContext(t *testing.T) {
	inf := &fakeInferencer{payload: studyRecordJSON(t)}
	p := newConceptPipeline(t, inf, 5, 3)
	ctx := common.WithSessionID(context.Background(), "ctx-sitzung")

	id, err := p.Save(ctx, []byte(`{}`), "md", "")
	require.NoError(t, err)

	stored, err := p.Repo.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "ctx-sitzung", stored.SessionID.String)

	// An explicit session wins over the context one.
	id, err = p.Save(ctx, []byte(`{}`), "md", "explizit")
	require.NoError(t, err)
	stored, err = p.Repo.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "explizit", stored.SessionID.String)
}

func TestConceptPipeline_ClientIDFromContext(t *testing.T) {
	inf := &fakeInferencer{payload: studyRecordJSON(t)}
	p := newConceptPipeline(t, inf, 1, 1)
	ctx := common.WithClientID(context.Background(), "ctx-client")

	docs := []extract.SourceDocument{{Name: "a.pdf", Content: []byte("Text"), Ext: "pdf"}}
	_, _, err := p.RunExtraction(ctx, "", docs, "")
	require.NoError(t, err)
	_, _, err = p.RunExtraction(ctx, "ctx-client", docs, "")
	require.ErrorIs(t, err, common.ErrRateLimited)
}

func TestConceptPipeline_EmptyCorpusPropagates(t *testing.T) {
	p := newConceptPipeline(t, &fakeInferencer{}, 5, 3)
	_, _, err := p.RunExtraction(context.Background(), "c", nil, "")
	require.ErrorIs(t, err, common.ErrEmptyCorpus)
}
