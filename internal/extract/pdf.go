package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractPDF pulls text out of a PDF, page by page. Pages that yield no
// text contribute nothing to the output. Assumes admission already
// rejected encrypted files; anything unreadable here is an error.
func extractPDF(content []byte) (Result, error) {
	if len(content) == 0 {
		return Result{Method: MethodPDFText}, nil
	}

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(content), conf)
	if err != nil {
		return Result{Method: MethodPDFText}, fmt.Errorf("pdfcpu read: %w", err)
	}

	var pages []string
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		text := pdfPageText(pdfCtx, pageNr)
		if text == "" {
			continue
		}
		pages = append(pages, text)
	}

	return Result{
		Text:   strings.Join(pages, "\n"),
		Pages:  pdfCtx.PageCount,
		Method: MethodPDFText,
	}, nil
}

// pdfPageText extracts one page's text via its content stream.
func pdfPageText(pdfCtx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
	if err != nil || r == nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return contentStreamText(data)
}

// pdfStringLiterals scans a content stream line for PDF string
// literals and returns their raw insides. Escaped parentheses and
// balanced nested pairs stay part of the literal, so `(a\)b)` yields
// `a\)b` rather than stopping at the escape.
func pdfStringLiterals(line []byte) [][]byte {
	var out [][]byte
	for i := 0; i < len(line); i++ {
		if line[i] != '(' {
			continue
		}
		depth := 1
		j := i + 1
		for ; j < len(line); j++ {
			switch line[j] {
			case '\\':
				j++
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 {
				break
			}
		}
		if depth != 0 {
			break
		}
		out = append(out, line[i+1:j])
		i = j
	}
	return out
}

// contentStreamText walks the page content stream and collects the text
// shown by the Tj/TJ/' operators. Td/TD/T* positioning operators become
// separators so words from distinct runs don't fuse.
func contentStreamText(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		switch {
		case bytes.HasSuffix(line, []byte("Tj")), bytes.HasSuffix(line, []byte("TJ")):
			for _, lit := range pdfStringLiterals(line) {
				sb.WriteString(decodePDFLiteral(lit))
			}
		case bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")):
			for _, lit := range pdfStringLiterals(line) {
				sb.WriteByte('\n')
				sb.WriteString(decodePDFLiteral(lit))
			}
		case bytes.HasSuffix(line, []byte("Td")), bytes.HasSuffix(line, []byte("TD")):
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		case bytes.Equal(line, []byte("T*")):
			sb.WriteByte('\n')
		}
	}

	return collapseSpace(sb.String())
}

// decodePDFLiteral resolves the escape sequences inside a PDF string
// literal, including octal escapes like \040.
func decodePDFLiteral(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			sb.WriteByte(raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '\\', '(', ')':
			sb.WriteByte(raw[i])
		default:
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for d := 0; d < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; d++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				sb.WriteByte(byte(val))
			} else {
				sb.WriteByte(raw[i])
			}
		}
	}
	return sb.String()
}

// collapseSpace squeezes whitespace runs into single spaces and drops
// non-printable bytes left over from stream decoding.
func collapseSpace(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		case unicode.IsPrint(r):
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}
