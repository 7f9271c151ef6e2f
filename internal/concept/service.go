// Package concept extracts study metadata from research applications
// and generates the privacy concept document from it.
package concept

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/datenschutzportal/auditcore/internal/common"
	"github.com/datenschutzportal/auditcore/internal/llm"
)

const extractionSystemPrompt = `Du bist ein Datenschutzexperte für medizinische Forschung an der Universitätsmedizin Frankfurt (UMF).
Analysiere den vorliegenden Forschungsantrag präzise und extrahiere die für das Datenschutzkonzept relevanten Metadaten.

WICHTIGE HINWEISE ZUR EXTRAKTION:
- Studientyp: Unterscheide genau zwischen 'retrospektiv' (nur Bestandsdaten), 'prospektiv' (neue Datenerhebung) oder 'gemischt'.
- Datenquellen: Achte auf Begriffe wie 'Orbis', 'iBDF', 'Klinisches Arbeitsplatzsystem', 'Patientenakte'.
- Pseudonymisierung: Suche nach Hinweisen auf 'Treuhandstelle', 'ID-Liste', 'Code-Key'.
- Institution: Falls nicht anders genannt, gehe von 'Universitätsmedizin Frankfurt' aus.

Antworte AUSSCHLIESSLICH mit dem geforderten JSON-Objekt.`

const generationSystemPrompt = `Du bist der Datenschutzbeauftragte der Universitätsmedizin Frankfurt (UMF).
Deine Aufgabe ist das Verfassen eines professionellen, behördenreifen Datenschutzkonzepts für einen Forschungsantrag.

STIL & TON:
- Formale, juristisch präzise Amtssprache (Deutsch).
- Sachlich, objektiv, direkt.
- Verwende die korrekten rechtlichen Bezüge: DSGVO (Datenschutz-Grundverordnung) und HDSIG (Hessisches Datenschutz- und Informationsfreiheitsgesetz).

FORMATIERUNG:
- Nutze Markdown (# Überschriften).
- Keine Platzhalter wie [Hier Datum einfügen] - fülle alles basierend auf den Daten oder sinnvollen Standards aus.`

// Service drives record extraction and concept generation. Unlike the
// audit path, failures here PROPAGATE: a partially populated record
// with invented fields would be actively misleading.
type Service struct {
	inf    llm.Inferencer
	logger *slog.Logger
}

func NewService(inf llm.Inferencer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{inf: inf, logger: logger}
}

// ExtractData runs structured extraction over the corpus. Returns the
// decoded record plus the raw provider JSON. Provider failures wrap
// common.ErrProvider, malformed payloads wrap common.ErrSchemaValidation.
func (s *Service) ExtractData(ctx context.Context, corpusText string) (StudyRecord, []byte, error) {
	start := time.Now()
	s.logger.Info("concept.extract.start", "corpus_len", len(corpusText))

	user := "Analysiere den folgenden Forschungsantrag und extrahiere die relevanten Daten:\n\n" + corpusText

	schema := BuildRecordSchema()
	raw, err := s.inf.Infer(ctx, extractionSystemPrompt, user, schema)
	if err != nil {
		s.logger.Error("concept.extract.infer_error", "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return StudyRecord{}, nil, err
	}

	// Null or blank optionals are dropped rather than failed; the
	// defaults fill them after decoding.
	if cleaned, _, err := llm.SanitizeOptionalFields(raw, optionalRecordFields, s.logger); err == nil {
		raw = cleaned
	}

	if err := llm.ValidateAgainstSchema(schema, raw); err != nil {
		s.logger.Error("concept.extract.schema_error", "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return StudyRecord{}, raw, err
	}

	var rec StudyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.logger.Error("concept.extract.decode_error", "error", err)
		return StudyRecord{}, raw, fmt.Errorf("%w: decode record: %v", common.ErrSchemaValidation, err)
	}
	rec.ApplyDefaults()

	s.logger.Info("concept.extract.ok",
		"study_title", rec.StudyTitle,
		"study_type", rec.StudyType,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, raw, nil
}

// GenerateConcept asks the provider for the full concept markdown.
// Failures propagate.
func (s *Service) GenerateConcept(ctx context.Context, rec StudyRecord) (string, error) {
	start := time.Now()
	s.logger.Info("concept.generate.start", "study_title", rec.StudyTitle)

	md, err := s.inf.Generate(ctx, generationSystemPrompt, buildGenerationPrompt(rec))
	if err != nil {
		s.logger.Error("concept.generate.error", "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}

	s.logger.Info("concept.generate.ok",
		"chars", len(md),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return md, nil
}

func yesNo(b bool) string {
	if b {
		return "Ja"
	}
	return "Nein"
}

// buildGenerationPrompt lays out the record data and the fixed section
// structure the concept document must follow.
func buildGenerationPrompt(rec StudyRecord) string {
	var b strings.Builder

	b.WriteString("Erstelle ein detailliertes Datenschutzkonzept für folgende Studie:\n\n")

	b.WriteString("# STUDIENDATEN\n")
	b.WriteString("Titel: " + rec.StudyTitle + "\n")
	b.WriteString("Typ: " + rec.StudyType + "\n")
	b.WriteString("PI: " + rec.PrincipalInvestigator + "\n")
	b.WriteString("Institution: " + rec.Institution + "\n")
	b.WriteString("Ziel: " + rec.StudyGoal + "\n")
	b.WriteString("Datenarten: " + strings.Join(rec.DataTypes, ", ") + "\n")
	b.WriteString("Patientenzahl: " + rec.PatientCount + "\n")
	b.WriteString("Quellen: " + strings.Join(rec.DataSources, ", ") + "\n")
	b.WriteString("Verarbeitung: " + rec.ProcessingMethods + "\n")
	b.WriteString("Pseudonymisierung: " + yesNo(rec.PseudonymizationUsage) + "\n")
	b.WriteString("Externe Weitergabe: " + yesNo(rec.ExternalDataSharing) + "\n")
	b.WriteString("Ethikvotum: " + rec.EthicsVote + "\n\n")

	b.WriteString("# ZUSATZINFOS\n")
	b.WriteString("Minimierung: " + rec.DataMinimization + "\n")
	b.WriteString("Speicherort: " + rec.StorageLocation + "\n")
	b.WriteString("Archivierung: " + rec.ArchivingPeriod + "\n")
	b.WriteString("Interne Zugriffe: " + strings.Join(rec.InternalAccess, ", ") + "\n")
	b.WriteString("Externe Partner: " + rec.ExternalPartners + "\n\n")

	b.WriteString(`# ANWEISUNG ZUR STRUKTUR (Bitte exakt einhalten)

## 1. DARSTELLUNG DES FORSCHUNGSVORHABENS
- Beschreibe Ziel und Zweck basierend auf den Studiendaten.
- Begründe die Erforderlichkeit der Datenverarbeitung.
- Falls retrospektiv: Erkläre, warum eine Einwilligung unverhältnismäßig wäre (HDSIG § 24).
- Falls prospektiv: Erwähne die schriftliche Einwilligung der Patienten.

## 2. ORGANISATORISCHE STRUKTUR
- Verantwortliche Stelle: Universitätsklinikum Frankfurt, Theodor-Stern-Kai 7, 60590 Frankfurt am Main.
- Institutsleitung: ` + rec.PrincipalInvestigator + `
- Datenschutzbeauftragter: Datenschutzbeauftragter der UMF (datenschutz@kgu.de).

## 3. BESCHREIBUNG DER DATENVERARBEITUNG
- Art der Daten: ` + strings.Join(rec.DataTypes, ", ") + `
- Kreis der Betroffenen: Patienten der ` + rec.Institution + `
- Datenherkunft: ` + strings.Join(rec.DataSources, ", ") + `
- Datenfluss: Beschreibe den Weg der Daten von der Quelle (z.B. Orbis) in die Forschungsdatenbank.
- Pseudonymisierung: Beschreibe das Verfahren (Trennung von ID und medizinischen Daten).

## 4. RECHTSGRUNDLAGEN
- Nenne DSGVO Art. 6 Abs. 1 lit. e (öffentliches Interesse) sowie Art. 9 Abs. 2 lit. j (Forschungszwecke).
- Nenne HDSIG § 24 (Verarbeitung zu wissenschaftlichen Forschungszwecken).
- Falls Einwilligung vorliegt: DSGVO Art. 6 Abs. 1 lit. a und Art. 9 Abs. 2 lit. a.

## 5. RECHTE DER BETROFFENEN
- Liste auf: Auskunftsrecht, Berichtigungsrecht, Löschrecht, Einschränkung der Verarbeitung, Widerspruchsrecht.
- Hinweis: Einschränkungen dieser Rechte sind gemäß HDSIG möglich, wenn sie den Forschungszweck unmöglich machen würden.

## 6. ORGANISATORISCHE MAßNAHMEN
- Verpflichtung auf Datengeheimnis.
- Zugriffskonzepte (Need-to-know-Prinzip).
- Regelmäßige Schulungen der Mitarbeiter.

## 7. TECHNISCHE MAßNAHMEN (TOMs)
- Speicherung auf gesicherten Servern der UMF (keine lokale Speicherung auf Laptops).
- Zugriffsschutz durch Passwörter und Active Directory.
- Automatische Backups durch das Zentrum für Informations- und Medizintechnik (ZIM).
- Verschlüsselung bei etwaigem Datentransfer.

Antworte NUR mit dem Markdown-Text. Beginne direkt mit der Überschrift "# Datenschutzkonzept".`)

	return b.String()
}
