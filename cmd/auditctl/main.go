package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/datenschutzportal/auditcore/internal/audit"
	"github.com/datenschutzportal/auditcore/internal/checklist"
	"github.com/datenschutzportal/auditcore/internal/common"
	"github.com/datenschutzportal/auditcore/internal/corpus"
	"github.com/datenschutzportal/auditcore/internal/export"
	"github.com/datenschutzportal/auditcore/internal/extract"
	"github.com/datenschutzportal/auditcore/internal/ingest"
	"github.com/datenschutzportal/auditcore/internal/llm/openai"
	"github.com/datenschutzportal/auditcore/internal/pipeline"
	"github.com/datenschutzportal/auditcore/internal/ratelimit"
)

// auditctl runs the document audit over a local directory of files and
// writes the markdown report to stdout (and optionally a .docx).
//
//	usage: auditctl <files-dir> [report.docx]
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		logger.Error("usage: auditctl <files-dir> [report.docx]")
		os.Exit(2)
	}
	dir := os.Args[1]

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		ProxyURL:    cfg.AI.ProxyURL,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	}, logger)

	criteria := checklist.NewStore(cfg.Checklist.Path, logger)

	p := &pipeline.AuditPipeline{
		Files:   ingest.NewLocalDirSource(filepath.Dir(dir), cfg.Upload.MaxFileBytes, logger),
		Corpus:  corpus.NewBuilder(extract.NewDispatcher(logger), logger),
		Auditor: audit.NewService(client, criteria, audit.Options{}, logger),
		Limiter: ratelimit.NewLimiter(cfg.Limits.ExtractPerMinute, logger),
		Logger:  logger,
	}

	ctx, cancel := common.WithTimeout(context.Background(), 3*cfg.AI.Timeout)
	defer cancel()
	ctx = common.WithClientID(ctx, "auditctl")

	outcome, err := p.Run(ctx, "auditctl", filepath.Base(dir), "")
	if err != nil {
		if errors.Is(err, common.ErrEmptyCorpus) {
			logger.Error("no analyzable text in the given files", "dir", dir)
		} else {
			logger.Error("audit failed", "error", err)
		}
		os.Exit(1)
	}
	for _, rej := range outcome.Rejected {
		logger.Warn("file rejected", "file", rej.Name, "reason", rej.Reason)
	}

	if _, err := os.Stdout.WriteString(outcome.ReportMarkdown); err != nil {
		logger.Error("write report", "error", err)
		os.Exit(1)
	}

	if len(os.Args) >= 3 {
		exporter := export.NewService(logger)
		artifact, err := exporter.ExportDocx(outcome.ReportMarkdown, filepath.Base(os.Args[2]))
		if err != nil {
			logger.Error("docx export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(os.Args[2], artifact.Data, 0o644); err != nil {
			logger.Error("write docx", "path", os.Args[2], "error", err)
			os.Exit(1)
		}
		logger.Info("docx written", "path", os.Args[2], "bytes", len(artifact.Data))
	}
}
