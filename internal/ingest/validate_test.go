package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/require"

	"github.com/datenschutzportal/auditcore/internal/common"
)

func TestAllowedExt(t *testing.T) {
	require.True(t, AllowedExt("pdf"))
	require.True(t, AllowedExt(".PDF"))
	require.True(t, AllowedExt("docx"))
	require.True(t, AllowedExt("jpeg"))
	require.False(t, AllowedExt("exe"))
	require.False(t, AllowedExt("txt"))
	require.False(t, AllowedExt(""))
}

func TestValidateFile_UnsupportedExtension(t *testing.T) {
	err := ValidateFile("malware.exe", []byte("MZ"), 0)
	require.ErrorIs(t, err, common.ErrUnsupportedFileType)
	require.Contains(t, err.Error(), "malware.exe")
}

func TestValidateFile_NoExtension(t *testing.T) {
	err := ValidateFile("README", []byte("text"), 0)
	require.ErrorIs(t, err, common.ErrUnsupportedFileType)
}

func TestValidateFile_TooLarge(t *testing.T) {
	err := ValidateFile("big.docx", []byte(strings.Repeat("x", 100)), 50)
	require.ErrorIs(t, err, common.ErrFileTooLarge)
	require.Contains(t, err.Error(), "big.docx")
}

func TestValidateFile_SizeCapDisabledWhenZero(t *testing.T) {
	err := ValidateFile("big.docx", []byte(strings.Repeat("x", 100)), 0)
	require.NoError(t, err)
}

func TestValidateFile_CaseInsensitiveExtension(t *testing.T) {
	require.NoError(t, ValidateFile("Bericht.DOCX", []byte("PK"), 0))
}

func TestValidateFile_UnreadablePDF(t *testing.T) {
	err := ValidateFile("kaputt.pdf", []byte("%PDF-1.4 nonsense without xref"), 0)
	require.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestValidateFile_NonPDFSkipsProbe(t *testing.T) {
	// A docx with garbage bytes passes admission; extraction deals with it.
	require.NoError(t, ValidateFile("later.docx", []byte("garbage"), 0))
}

func TestValidateFile_OwnerPasswordPDFRejected(t *testing.T) {
	// Owner-password-only PDFs open with an empty user password, so the
	// read succeeds and the encryption dictionary gives them away.
	raw := encryptPDF(t, buildTextPDF("vertraulich"), "", "geheim")

	err := ValidateFile("geschuetzt.pdf", raw, 0)
	require.ErrorIs(t, err, common.ErrEncryptedDocument)
	require.Contains(t, err.Error(), "geschuetzt.pdf")
}

func TestValidateFile_UserPasswordPDFRejected(t *testing.T) {
	// User-password PDFs fail the read outright with a password error.
	raw := encryptPDF(t, buildTextPDF("vertraulich"), "geheim", "geheim")

	err := ValidateFile("gesperrt.pdf", raw, 0)
	require.ErrorIs(t, err, common.ErrEncryptedDocument)
}

func TestValidateFile_PlainPDFPasses(t *testing.T) {
	require.NoError(t, ValidateFile("offen.pdf", buildTextPDF("offen"), 0))
}

func encryptPDF(t *testing.T, raw []byte, userPW, ownerPW string) []byte {
	t.Helper()
	conf := model.NewDefaultConfiguration()
	conf.UserPW = userPW
	conf.OwnerPW = ownerPW

	var buf bytes.Buffer
	require.NoError(t, api.Encrypt(bytes.NewReader(raw), &buf, conf))
	return buf.Bytes()
}

// buildTextPDF writes a single-page PDF with correct xref offsets.
func buildTextPDF(text string) []byte {
	escaped := strings.ReplaceAll(text, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "(", `\(`)
	escaped = strings.ReplaceAll(escaped, ")", `\)`)

	stream := "BT\n/F1 12 Tf\n72 720 Td\n(" + escaped + ") Tj\nET"

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	offsets := make([]int, 6)

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")

	offsets[3] = b.Len()
	b.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>\nendobj\n")

	offsets[4] = b.Len()
	b.WriteString("4 0 obj\n<< /Length ")
	b.WriteString(pdfItoa(len(stream)))
	b.WriteString(" >>\nstream\n")
	b.WriteString(stream)
	b.WriteString("\nendstream\nendobj\n")

	offsets[5] = b.Len()
	b.WriteString("5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	xrefOffset := b.Len()
	b.WriteString("xref\n0 6\n")
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		b.WriteString(pdfPadOffset(offsets[i]))
		b.WriteString(" 00000 n \n")
	}
	b.WriteString("trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n")
	b.WriteString(pdfItoa(xrefOffset))
	b.WriteString("\n%%EOF\n")

	return []byte(b.String())
}

func pdfItoa(n int) string {
	if n == 0 {
		return "0"
	}
	s := ""
	for n > 0 {
		s = string(rune('0'+n%10)) + s
		n /= 10
	}
	return s
}

func pdfPadOffset(n int) string {
	s := pdfItoa(n)
	for len(s) < 10 {
		s = "0" + s
	}
	return s
}
