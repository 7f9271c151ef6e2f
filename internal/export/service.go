// Package export turns pipeline results into downloadable artifacts.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/datenschutzportal/auditcore/internal/common"
)

// Artifact is one downloadable export.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service produces export artifacts. Only the docx path routes through
// the markdown renderer; json and markdown are pass-through.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportDocx renders markdown into a paginated document file.
func (s *Service) ExportDocx(markdown, filename string) (Artifact, error) {
	start := time.Now()

	blocks := ParseMarkdown(markdown)
	data, err := WriteDocx(blocks)
	if err != nil {
		return Artifact{}, fmt.Errorf("write docx: %w", err)
	}

	s.logger.Info("export.docx.ok",
		"blocks", len(blocks),
		"bytes", len(data),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Artifact{
		Filename:    filename,
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Data:        data,
	}, nil
}

// ExportJSON marshals the payload pretty-printed.
func (s *Service) ExportJSON(payload any, filename string) (Artifact, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return Artifact{}, fmt.Errorf("marshal payload: %w", err)
	}
	return Artifact{
		Filename:    filename,
		ContentType: "application/json",
		Data:        data,
	}, nil
}

// ExportMarkdown passes the markdown through unchanged.
func (s *Service) ExportMarkdown(markdown, filename string) Artifact {
	return Artifact{
		Filename:    filename,
		ContentType: "text/markdown",
		Data:        []byte(markdown),
	}
}

// Export dispatches on the requested format: docx, json or markdown.
func (s *Service) Export(format string, payload any, markdown, basename string) (Artifact, error) {
	switch format {
	case "docx":
		return s.ExportDocx(markdown, basename+".docx")
	case "json":
		return s.ExportJSON(payload, basename+".json")
	case "markdown":
		return s.ExportMarkdown(markdown, basename+".md"), nil
	default:
		return Artifact{}, fmt.Errorf("format %q: %w", format, common.ErrInvalidInput)
	}
}
