package concept

// StudyRecord is the fixed-shape record extracted from a research
// application. Required fields must come from the provider; optional
// fields get documented defaults via ApplyDefaults.
type StudyRecord struct {
	StudyTitle            string   `json:"study_title"`
	StudyType             string   `json:"study_type"` // retrospektiv | prospektiv | gemischt
	PrincipalInvestigator string   `json:"principal_investigator"`
	Institution           string   `json:"institution"`
	StudyGoal             string   `json:"study_goal"`
	DataTypes             []string `json:"data_types"`
	PatientCount          string   `json:"patient_count"`
	DataSources           []string `json:"data_sources"`
	ProcessingMethods     string   `json:"processing_methods"`
	PseudonymizationUsage bool     `json:"pseudonymization_usage"`
	ExternalDataSharing   bool     `json:"external_data_sharing"`
	EthicsVote            string   `json:"ethics_vote,omitempty"`

	// Optional details for the generated concept.
	DataMinimization string   `json:"data_minimization,omitempty"`
	StorageLocation  string   `json:"storage_location,omitempty"`
	ArchivingPeriod  string   `json:"archiving_period,omitempty"`
	InternalAccess   []string `json:"internal_access,omitempty"`
	ExternalPartners string   `json:"external_partners,omitempty"`
}

// Documented defaults for optional record fields.
const (
	DefaultStorageLocation  = `U:\Klifo (Geschütztes Netzlaufwerk der UMF)`
	DefaultArchivingPeriod  = "10 Jahre nach Abschluss der Studie gemäß guter wissenschaftlicher Praxis"
	DefaultDataMinimization = "Es werden nur die für die Forschungsfrage unbedingt erforderlichen Daten erhoben (Grundsatz der Datenminimierung)."
	DefaultInternalAccess   = "Nur autorisierte Mitglieder der Forschungsgruppe"
	DefaultEthicsVote       = "Beantragt"
	DefaultExternalPartners = "Keine"
)

// ApplyDefaults fills the optional fields the provider left empty.
func (r *StudyRecord) ApplyDefaults() {
	if r.DataMinimization == "" {
		r.DataMinimization = DefaultDataMinimization
	}
	if r.StorageLocation == "" {
		r.StorageLocation = DefaultStorageLocation
	}
	if r.ArchivingPeriod == "" {
		r.ArchivingPeriod = DefaultArchivingPeriod
	}
	if len(r.InternalAccess) == 0 {
		r.InternalAccess = []string{DefaultInternalAccess}
	}
	if r.EthicsVote == "" {
		r.EthicsVote = DefaultEthicsVote
	}
	if r.ExternalPartners == "" {
		r.ExternalPartners = DefaultExternalPartners
	}
}
