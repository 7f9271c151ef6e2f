// Package repository persists generated privacy concepts. Thin
// collaborator for the pipeline; the core only sees the interface.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/datenschutzportal/auditcore/internal/common"
)

// ConceptRecord is one stored extraction + generated concept.
type ConceptRecord struct {
	ID              string         `db:"id"`
	SessionID       sql.NullString `db:"session_id"`
	ExtractedData   []byte         `db:"extracted_data"` // raw JSON of the study record
	ConceptMarkdown string         `db:"concept_markdown"`
	CreatedAt       time.Time      `db:"created_at"`
}

// ConceptRepository is the persistence behavior the pipeline depends on.
type ConceptRepository interface {
	Save(ctx context.Context, extractedData []byte, conceptMarkdown, sessionID string) (string, error)
	Get(ctx context.Context, id string) (*ConceptRecord, error)
}

const conceptsDDL = `
CREATE TABLE IF NOT EXISTS privacy_concepts (
	id               TEXT PRIMARY KEY,
	session_id       TEXT,
	extracted_data   BLOB NOT NULL,
	concept_markdown TEXT NOT NULL,
	created_at       TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_privacy_concepts_session ON privacy_concepts(session_id);
`

// SQLiteConcepts implements ConceptRepository on a local sqlite file.
type SQLiteConcepts struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Open opens (or creates) the sqlite database and bootstraps the schema.
func Open(path string, logger *slog.Logger) (*SQLiteConcepts, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(conceptsDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	logger.Info("repository.opened", "path", path)
	return &SQLiteConcepts{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (r *SQLiteConcepts) Close() error {
	return r.db.Close()
}

// Save stores the record and returns its generated id. sessionID may be
// empty for anonymous callers.
func (r *SQLiteConcepts) Save(ctx context.Context, extractedData []byte, conceptMarkdown, sessionID string) (string, error) {
	id := uuid.New().String()
	session := sql.NullString{String: sessionID, Valid: sessionID != ""}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO privacy_concepts (id, session_id, extracted_data, concept_markdown, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, session, extractedData, conceptMarkdown, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert concept: %w", err)
	}

	r.logger.Info("repository.concept_saved", "id", id, "session_id", sessionID)
	return id, nil
}

// Get returns the stored record or common.ErrNotFound.
func (r *SQLiteConcepts) Get(ctx context.Context, id string) (*ConceptRecord, error) {
	var rec ConceptRecord
	err := r.db.GetContext(ctx, &rec,
		`SELECT id, session_id, extracted_data, concept_markdown, created_at
		 FROM privacy_concepts WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("concept %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query concept: %w", err)
	}
	return &rec, nil
}
