package audit

import (
	"strings"
	"time"

	"github.com/datenschutzportal/auditcore/constants"
)

// statusIcon maps a per-check status to its report marker.
func statusIcon(status string) string {
	switch constants.CheckStatus(status) {
	case constants.CheckPass:
		return "✅"
	case constants.CheckWarning:
		return "⚠️"
	case constants.CheckFail:
		return "❌"
	default:
		return "❓"
	}
}

// ReportMarkdown renders the audit result as a markdown report suitable
// for the docx renderer.
func ReportMarkdown(result Result, now time.Time) string {
	var md strings.Builder

	md.WriteString("# Automatische Datenschutz-Prüfung\n\n")
	md.WriteString("**Datum:** " + now.Format("02.01.2006 15:04") + "\n")
	md.WriteString("**Gesamtergebnis:** " + result.OverallStatus + "\n\n")

	md.WriteString("## Zusammenfassung\n\n")
	md.WriteString(result.Summary + "\n\n")

	md.WriteString("## Detaillierte Prüfung\n\n")
	for _, r := range result.Results {
		md.WriteString("### " + statusIcon(r.Status) + " " + r.CheckID + "\n")
		md.WriteString("**Status:** " + r.Status + "\n\n")
		md.WriteString("**Befund:**\n" + r.Findings + "\n\n")
		if r.Recommendation != "" {
			md.WriteString("**Empfehlung:**\n" + r.Recommendation + "\n\n")
		}
		md.WriteString("---\n\n")
	}

	md.WriteString("\n*Hinweis: Dieser Bericht wurde automatisch durch KI erstellt und dient als Unterstützung. " +
		"Er ersetzt keine rechtliche Prüfung durch einen Datenschutzbeauftragten.*\n")
	return md.String()
}
