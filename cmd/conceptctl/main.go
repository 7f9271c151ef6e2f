package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/datenschutzportal/auditcore/constants"
	"github.com/datenschutzportal/auditcore/internal/common"
	"github.com/datenschutzportal/auditcore/internal/concept"
	"github.com/datenschutzportal/auditcore/internal/corpus"
	"github.com/datenschutzportal/auditcore/internal/export"
	"github.com/datenschutzportal/auditcore/internal/extract"
	"github.com/datenschutzportal/auditcore/internal/ingest"
	"github.com/datenschutzportal/auditcore/internal/llm/openai"
	"github.com/datenschutzportal/auditcore/internal/pipeline"
	"github.com/datenschutzportal/auditcore/internal/ratelimit"
	"github.com/datenschutzportal/auditcore/internal/repository"
)

// conceptctl extracts a study record from research application files,
// generates the privacy concept, saves it, and writes the .docx.
//
//	usage: conceptctl <file> [file...] > concept.docx
//
// With no file arguments, the application text is read from stdin.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	var docs []extract.SourceDocument
	var manualText string
	if len(os.Args) > 1 {
		for _, path := range os.Args[1:] {
			content, err := os.ReadFile(path)
			if err != nil {
				logger.Error("read file", "path", path, "error", err)
				os.Exit(1)
			}
			name := filepath.Base(path)
			if err := ingest.ValidateFile(name, content, cfg.Upload.MaxFileBytes); err != nil {
				logger.Error("file rejected", "file", name, "reason", err)
				os.Exit(1)
			}
			docs = append(docs, extract.SourceDocument{
				Name:    name,
				Content: content,
				Ext:     constants.NormalizeExt(filepath.Ext(name)),
			})
		}
	} else {
		stdin, err := io.ReadAll(os.Stdin)
		if err != nil {
			logger.Error("read stdin", "error", err)
			os.Exit(1)
		}
		manualText = string(stdin)
	}

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		ProxyURL:    cfg.AI.ProxyURL,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	}, logger)

	repo, err := repository.Open(cfg.Database.Path, logger)
	if err != nil {
		logger.Error("open repository", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("close repository", "error", err)
		}
	}()

	p := &pipeline.ConceptPipeline{
		Corpus:          corpus.NewBuilder(extract.NewDispatcher(logger), logger),
		Concepts:        concept.NewService(client, logger),
		Repo:            repo,
		ExtractLimiter:  ratelimit.NewLimiter(cfg.Limits.ExtractPerMinute, logger),
		GenerateLimiter: ratelimit.NewLimiter(cfg.Limits.GeneratePerMinute, logger),
		Logger:          logger,
	}

	ctx, cancel := common.WithTimeout(context.Background(), 3*cfg.AI.Timeout)
	defer cancel()
	ctx = common.WithClientID(ctx, "conceptctl")
	ctx = common.WithSessionID(ctx, uuid.New().String())

	rec, raw, err := p.RunExtraction(ctx, "conceptctl", docs, manualText)
	if err != nil {
		logger.Error("extraction failed", "error", err)
		os.Exit(1)
	}

	pretty, _ := json.MarshalIndent(rec, "", "  ")
	logger.Info("extracted study record", "record", string(pretty))

	markdown, err := p.RunGeneration(ctx, "conceptctl", rec)
	if err != nil {
		logger.Error("generation failed", "error", err)
		os.Exit(1)
	}

	id, err := p.Save(ctx, raw, markdown, "")
	if err != nil {
		logger.Error("save failed", "error", err)
		os.Exit(1)
	}
	logger.Info("concept saved", "id", id)

	exporter := export.NewService(logger)
	artifact, err := exporter.ExportDocx(markdown, "Datenschutzkonzept.docx")
	if err != nil {
		logger.Error("docx export failed", "error", err)
		os.Exit(1)
	}
	if _, err := os.Stdout.Write(artifact.Data); err != nil {
		logger.Error("write docx", "error", err)
		os.Exit(1)
	}
}
