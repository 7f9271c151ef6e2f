package extract

import (
	"context"

	"github.com/datenschutzportal/auditcore/constants"
)

// SourceDocument is one admitted input file. Immutable once received;
// consumed by exactly one extraction call.
type SourceDocument struct {
	Name    string
	Content []byte
	Ext     string
}

// Format returns the extraction format for the document's extension.
func (d SourceDocument) Format() constants.Format {
	return constants.MapExtToFormat(d.Ext)
}

// Result is the outcome of one extraction call.
type Result struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "docx-xml" | "odt-xml" | "xlsx-rows" | "plain" | "unsupported"
	Warnings []string
}

// Unsupported reports whether the document's extension has no extraction
// strategy, as opposed to a supported document that genuinely yielded
// no text.
func (r Result) Unsupported() bool {
	return r.Method == MethodUnsupported
}

const (
	MethodPDFText     = "pdf-text"
	MethodDocxXML     = "docx-xml"
	MethodODTXML      = "odt-xml"
	MethodXLSXRows    = "xlsx-rows"
	MethodPlain       = "plain"
	MethodUnsupported = "unsupported"
)

// TextExtractor converts a document's bytes into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, doc SourceDocument) (Result, error)
}
