package constants

import "strings"

// MaxUploadBytes is the default size cap for a single uploaded file (50 MiB).
const MaxUploadBytes = 50 * 1024 * 1024

// Format is the extraction strategy for a file.
type Format string

const (
	FormatPDF  Format = "PDF"
	FormatDocx Format = "DOCX"
	FormatXLSX Format = "XLSX"
	FormatODT  Format = "ODT"
	FormatText Format = "TEXT"
)

// AllowedExtensions holds the file extensions accepted at upload time.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"doc":  {},
	"docx": {},
	"zip":  {},
	"odt":  {},
	"ods":  {},
	"odp":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"xlsx": {},
	"xls":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension to its extraction format.
// Returns "" for extensions we accept at upload but cannot extract text from
// (images, archives, presentations).
func MapExtToFormat(ext string) Format {
	switch NormalizeExt(ext) {
	case "pdf":
		return FormatPDF
	case "doc", "docx":
		return FormatDocx
	case "xlsx", "xls":
		return FormatXLSX
	case "odt":
		return FormatODT
	case "txt", "md":
		return FormatText
	default:
		return ""
	}
}
