package concept

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datenschutzportal/auditcore/internal/common"
)

type fakeInferencer struct {
	payload    []byte
	generated  string
	err        error
	lastSystem string
	lastUser   string
}

func (f *fakeInferencer) Infer(_ context.Context, system, user string, _ map[string]any) ([]byte, error) {
	f.lastSystem = system
	f.lastUser = user
	return f.payload, f.err
}

func (f *fakeInferencer) Generate(_ context.Context, system, user string) (string, error) {
	f.lastSystem = system
	f.lastUser = user
	return f.generated, f.err
}

func validRecordJSON(t *testing.T) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"study_title":            "Retrospektive Analyse kardiologischer Befunde",
		"study_type":             "retrospektiv",
		"principal_investigator": "Dr. med. Beispiel",
		"institution":            "Universitätsmedizin Frankfurt",
		"study_goal":             "Auswertung von Bestandsdaten",
		"data_types":             []string{"Diagnosen", "Laborwerte"},
		"patient_count":          "ca. 500",
		"data_sources":           []string{"Orbis"},
		"processing_methods":     "Statistische Auswertung",
		"pseudonymization_usage": true,
		"external_data_sharing":  false,
	})
	require.NoError(t, err)
	return raw
}

func TestExtractData_DecodesAndAppliesDefaults(t *testing.T) {
	inf := &fakeInferencer{payload: validRecordJSON(t)}
	svc := NewService(inf, nil)

	rec, raw, err := svc.ExtractData(context.Background(), "Antragstext")
	require.NoError(t, err)
	require.JSONEq(t, string(validRecordJSON(t)), string(raw))

	require.Equal(t, "retrospektiv", rec.StudyType)
	require.True(t, rec.PseudonymizationUsage)

	// Optionals the provider left empty get the documented defaults.
	require.Equal(t, DefaultStorageLocation, rec.StorageLocation)
	require.Equal(t, DefaultArchivingPeriod, rec.ArchivingPeriod)
	require.Equal(t, DefaultEthicsVote, rec.EthicsVote)
	require.Equal(t, []string{DefaultInternalAccess}, rec.InternalAccess)
	require.Equal(t, DefaultExternalPartners, rec.ExternalPartners)

	require.Contains(t, inf.lastUser, "Antragstext")
}

func TestExtractData_NullOptionalsDroppedBeforeValidation(t *testing.T) {
	var m map[string]any
	require.NoError(t, json.Unmarshal(validRecordJSON(t), &m))
	m["ethics_vote"] = nil
	m["storage_location"] = ""
	raw, err := json.Marshal(m)
	require.NoError(t, err)

	svc := NewService(&fakeInferencer{payload: raw}, nil)
	rec, _, err := svc.ExtractData(context.Background(), "Antragstext")
	require.NoError(t, err)
	require.Equal(t, DefaultEthicsVote, rec.EthicsVote)
	require.Equal(t, DefaultStorageLocation, rec.StorageLocation)
}

func TestExtractData_ProviderErrorPropagates(t *testing.T) {
	inf := &fakeInferencer{err: fmt.Errorf("status 503: %w", common.ErrProvider)}
	svc := NewService(inf, nil)

	_, _, err := svc.ExtractData(context.Background(), "Antragstext")
	require.ErrorIs(t, err, common.ErrProvider)
}

func TestExtractData_MissingRequiredFieldPropagates(t *testing.T) {
	inf := &fakeInferencer{payload: []byte(`{"study_title":"nur Titel"}`)}
	svc := NewService(inf, nil)

	_, _, err := svc.ExtractData(context.Background(), "Antragstext")
	require.ErrorIs(t, err, common.ErrSchemaValidation)
}

func TestExtractData_InvalidStudyTypePropagates(t *testing.T) {
	var m map[string]any
	require.NoError(t, json.Unmarshal(validRecordJSON(t), &m))
	m["study_type"] = "experimentell"
	raw, err := json.Marshal(m)
	require.NoError(t, err)

	svc := NewService(&fakeInferencer{payload: raw}, nil)
	_, _, err = svc.ExtractData(context.Background(), "Antragstext")
	require.ErrorIs(t, err, common.ErrSchemaValidation)
}

func TestExtractData_NonJSONPropagates(t *testing.T) {
	svc := NewService(&fakeInferencer{payload: []byte("kein JSON")}, nil)
	_, _, err := svc.ExtractData(context.Background(), "Antragstext")
	require.ErrorIs(t, err, common.ErrSchemaValidation)
}

func TestGenerateConcept_PromptCarriesRecord(t *testing.T) {
	inf := &fakeInferencer{generated: "# Datenschutzkonzept\n\nInhalt"}
	svc := NewService(inf, nil)

	rec := StudyRecord{
		StudyTitle:            "Testudie",
		StudyType:             "prospektiv",
		PrincipalInvestigator: "Prof. Muster",
		Institution:           "Universitätsmedizin Frankfurt",
		DataTypes:             []string{"Vitalparameter"},
		DataSources:           []string{"iBDF"},
		PseudonymizationUsage: true,
	}
	rec.ApplyDefaults()

	md, err := svc.GenerateConcept(context.Background(), rec)
	require.NoError(t, err)
	require.Equal(t, "# Datenschutzkonzept\n\nInhalt", md)

	require.Contains(t, inf.lastUser, "Titel: Testudie")
	require.Contains(t, inf.lastUser, "Pseudonymisierung: Ja")
	require.Contains(t, inf.lastUser, "Externe Weitergabe: Nein")
	require.Contains(t, inf.lastUser, "iBDF")
	require.Contains(t, inf.lastUser, "ANWEISUNG ZUR STRUKTUR")
	require.Contains(t, inf.lastSystem, "Datenschutzbeauftragte")
}

func TestGenerateConcept_ProviderErrorPropagates(t *testing.T) {
	inf := &fakeInferencer{err: fmt.Errorf("timeout: %w", common.ErrProvider)}
	svc := NewService(inf, nil)

	_, err := svc.GenerateConcept(context.Background(), StudyRecord{StudyTitle: "x"})
	require.ErrorIs(t, err, common.ErrProvider)
}

func TestApplyDefaults_DoesNotOverwrite(t *testing.T) {
	rec := StudyRecord{
		EthicsVote:      "Erteilt (Az. 123/26)",
		StorageLocation: "Eigenes Laufwerk",
	}
	rec.ApplyDefaults()
	require.Equal(t, "Erteilt (Az. 123/26)", rec.EthicsVote)
	require.Equal(t, "Eigenes Laufwerk", rec.StorageLocation)
	require.Equal(t, DefaultDataMinimization, rec.DataMinimization)
}
