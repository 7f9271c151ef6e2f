package extract

import (
	"strings"
	"unicode/utf8"
)

// extractPlain handles .txt and .md files. Invalid UTF-8 bytes are
// replaced rather than rejected, matching a tolerant read.
func extractPlain(content []byte) (Result, error) {
	text := string(content)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	return Result{Text: text, Method: MethodPlain}, nil
}
