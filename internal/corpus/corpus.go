// Package corpus assembles extracted document text into the single
// bounded blob submitted to inference.
package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/datenschutzportal/auditcore/internal/common"
	"github.com/datenschutzportal/auditcore/internal/extract"
)

// MaxChars bounds the corpus size submitted to inference
// (~25k tokens at 4 chars/token).
const MaxChars = 100_000

// ManualTextLabel is the provenance header for free text typed by the
// user instead of (or alongside) uploaded files.
const ManualTextLabel = "MANUAL TEXT"

// Builder normalizes a list of source documents plus optional manual
// text into one corpus. Extraction failures degrade to a note inside
// the corpus; they never abort the build.
type Builder struct {
	Extractor extract.TextExtractor
	Logger    *slog.Logger
}

func NewBuilder(tx extract.TextExtractor, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{Extractor: tx, Logger: logger}
}

// Build concatenates manual text (first, if present) and per-file
// extracted text in intake order, each chunk under a provenance header.
// Files whose extraction failed or yielded nothing still contribute a
// header noting that, so reviewers can see which files added nothing.
// The result is cut at MaxChars (tail cut, mid-chunk allowed). An empty
// trimmed corpus returns common.ErrEmptyCorpus.
func (b *Builder) Build(ctx context.Context, docs []extract.SourceDocument, manualText string) (string, error) {
	var sb strings.Builder

	if strings.TrimSpace(manualText) != "" {
		sb.WriteString(chunkHeader(ManualTextLabel))
		sb.WriteString(manualText)
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		res, err := b.Extractor.Extract(ctx, doc)
		if err != nil {
			b.Logger.Warn("corpus.extract_failed", "file", doc.Name, "error", err)
			res = extract.Result{}
		}
		if res.Unsupported() {
			b.Logger.Warn("corpus.extract_unsupported", "file", doc.Name, "ext", doc.Ext)
		}
		for _, w := range res.Warnings {
			b.Logger.Warn("corpus.extract_warning", "file", doc.Name, "warning", w)
		}

		if strings.TrimSpace(res.Text) == "" {
			sb.WriteString(chunkHeader(fmt.Sprintf("FILE: %s (Text extraction failed or empty)", doc.Name)))
			continue
		}
		sb.WriteString(chunkHeader("FILE: " + doc.Name))
		sb.WriteString(res.Text)
	}

	text := sb.String()
	if runes := []rune(text); len(runes) > MaxChars {
		b.Logger.Info("corpus.truncated", "chars", len(runes), "budget", MaxChars)
		text = string(runes[:MaxChars])
	}

	if strings.TrimSpace(stripHeaders(text)) == "" {
		return "", common.ErrEmptyCorpus
	}
	return text, nil
}

func chunkHeader(label string) string {
	return "\n\n--- " + label + " ---\n\n"
}

// stripHeaders removes provenance header lines so that a corpus made of
// nothing but failure notes still counts as empty.
func stripHeaders(text string) string {
	var sb strings.Builder
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "--- ") && strings.HasSuffix(trimmed, " ---") {
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
