package ingest

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/datenschutzportal/auditcore/constants"
	"github.com/datenschutzportal/auditcore/internal/common"
)

// AllowedExt checks if a file extension is in the upload allow-list.
func AllowedExt(ext string) bool {
	_, ok := constants.AllowedExtensions[constants.NormalizeExt(ext)]
	return ok
}

// ValidateFile runs the admission checks on one uploaded file:
// extension allow-list, size cap, and for PDFs an encryption and
// parseability probe. Failures carry the offending filename so callers
// can surface a specific reason; the pipeline may continue with the
// remaining files.
func ValidateFile(name string, content []byte, maxBytes int64) error {
	ext := constants.NormalizeExt(filepath.Ext(name))
	if !AllowedExt(ext) {
		return fmt.Errorf("%s: %w", name, common.ErrUnsupportedFileType)
	}
	if maxBytes > 0 && int64(len(content)) > maxBytes {
		return fmt.Errorf("%s (%d bytes): %w", name, len(content), common.ErrFileTooLarge)
	}
	if ext == "pdf" {
		return validatePDF(name, content)
	}
	return nil
}

// validatePDF rejects password-protected or unparseable PDFs before the
// normalizer ever sees them.
func validatePDF(name string, content []byte) error {
	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadContext(bytes.NewReader(content), conf)
	if err != nil {
		// pdfcpu phrases user-password failures as "please provide
		// the correct password" without ever saying "encrypt".
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "encrypt") || strings.Contains(msg, "password") {
			return fmt.Errorf("%s: %w", name, common.ErrEncryptedDocument)
		}
		return fmt.Errorf("%s: unreadable pdf: %w", name, common.ErrInvalidInput)
	}
	if pdfCtx.Encrypt != nil {
		return fmt.Errorf("%s: %w", name, common.ErrEncryptedDocument)
	}
	return nil
}
