package ingest

import (
	"context"

	"github.com/datenschutzportal/auditcore/internal/extract"
)

// Rejection records one file that failed admission, with the reason.
// Rejections are reported to the caller; the pipeline continues with
// the remaining files.
type Rejection struct {
	Name   string
	Reason error
}

// FileSource resolves a project identifier into admitted source
// documents. The remote-storage collaborator (Nextcloud-like) sits
// behind this interface; the pipeline only ever sees local bytes.
type FileSource interface {
	Resolve(ctx context.Context, projectID string) ([]extract.SourceDocument, []Rejection, error)
}
