package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/datenschutzportal/auditcore/constants"
	"github.com/datenschutzportal/auditcore/internal/extract"
)

// LocalDirSource serves project files from a staging directory on disk,
// one subdirectory per project. It applies the admission checks and
// skips files that fail them, logging each rejection.
type LocalDirSource struct {
	Root     string
	MaxBytes int64
	Logger   *slog.Logger
}

func NewLocalDirSource(root string, maxBytes int64, logger *slog.Logger) *LocalDirSource {
	if logger == nil {
		logger = slog.Default()
	}
	if maxBytes <= 0 {
		maxBytes = constants.MaxUploadBytes
	}
	return &LocalDirSource{Root: root, MaxBytes: maxBytes, Logger: logger}
}

// Resolve reads the project's staged files in name order. Files that
// fail admission are reported as rejections with their reason; hidden
// files are skipped outright.
func (s *LocalDirSource) Resolve(ctx context.Context, projectID string) ([]extract.SourceDocument, []Rejection, error) {
	dir := filepath.Join(s.Root, filepath.Clean("/"+projectID))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read project dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var docs []extract.SourceDocument
	var rejected []Rejection
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		path := filepath.Join(dir, e.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			s.Logger.Warn("ingest.read_failed", "file", e.Name(), "error", err)
			rejected = append(rejected, Rejection{Name: e.Name(), Reason: err})
			continue
		}
		if err := ValidateFile(e.Name(), content, s.MaxBytes); err != nil {
			s.Logger.Warn("ingest.rejected", "file", e.Name(), "reason", err)
			rejected = append(rejected, Rejection{Name: e.Name(), Reason: err})
			continue
		}
		docs = append(docs, extract.SourceDocument{
			Name:    e.Name(),
			Content: content,
			Ext:     constants.NormalizeExt(filepath.Ext(e.Name())),
		})
	}

	s.Logger.Info("ingest.resolved", "project_id", projectID, "files", len(docs), "rejected", len(rejected))
	return docs, rejected, nil
}
