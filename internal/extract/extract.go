// Package extract converts office documents into plain text.
//
// Supported formats:
//   - .pdf:       per-page content-stream text via pdfcpu
//   - .doc/.docx: word/document.xml paragraphs from the zip archive
//   - .odt:       content.xml paragraphs from the zip archive
//   - .xlsx/.xls: sheet/row dump via excelize
//   - .txt/.md:   passthrough
//
// Extraction is lossy: tables inside word documents, images
// and formatting are dropped. A failed or unsupported extraction never
// aborts the caller; it degrades to empty text.
package extract

import (
	"context"
	"log/slog"

	"github.com/datenschutzportal/auditcore/constants"
)

// Dispatcher routes a document to the extraction strategy for its
// extension. It implements TextExtractor.
type Dispatcher struct {
	logger *slog.Logger
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{logger: logger}
}

// Extract converts doc's bytes into plain text. An unsupported extension
// returns Result{Method: "unsupported"} with a nil error so the caller
// can log it apart from a genuinely empty document. Per-format failures
// are returned as errors; callers degrade them to empty text.
func (d *Dispatcher) Extract(_ context.Context, doc SourceDocument) (Result, error) {
	switch doc.Format() {
	case constants.FormatPDF:
		return extractPDF(doc.Content)
	case constants.FormatDocx:
		return extractDocx(doc.Content)
	case constants.FormatODT:
		return extractODT(doc.Content)
	case constants.FormatXLSX:
		return extractXLSX(doc.Content)
	case constants.FormatText:
		return extractPlain(doc.Content)
	default:
		d.logger.Warn("extract.unsupported_ext", "file", doc.Name, "ext", doc.Ext)
		return Result{Method: MethodUnsupported}, nil
	}
}
