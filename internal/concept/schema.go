package concept

// optionalRecordFields lists the keys the provider may omit, return
// null for, or leave blank; they are sanitized away before validation
// and filled by ApplyDefaults.
var optionalRecordFields = []string{
	"ethics_vote",
	"data_minimization",
	"storage_location",
	"archiving_period",
	"internal_access",
	"external_partners",
}

// BuildRecordSchema returns the JSON Schema the extracted study record
// must satisfy. Optionals stay out of required; their defaults are
// applied after decoding.
func BuildRecordSchema() map[string]any {
	stringList := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"study_title": map[string]any{"type": "string", "minLength": 1},
			"study_type": map[string]any{
				"type": "string",
				"enum": []string{"retrospektiv", "prospektiv", "gemischt"},
			},
			"principal_investigator": map[string]any{"type": "string", "minLength": 1},
			"institution":            map[string]any{"type": "string", "minLength": 1},
			"study_goal":             map[string]any{"type": "string", "minLength": 1},
			"data_types":             stringList,
			"patient_count":          map[string]any{"type": "string"},
			"data_sources":           stringList,
			"processing_methods":     map[string]any{"type": "string"},
			"pseudonymization_usage": map[string]any{"type": "boolean"},
			"external_data_sharing":  map[string]any{"type": "boolean"},
			"ethics_vote":            map[string]any{"type": "string"},
			"data_minimization":      map[string]any{"type": "string"},
			"storage_location":       map[string]any{"type": "string"},
			"archiving_period":       map[string]any{"type": "string"},
			"internal_access":        stringList,
			"external_partners":      map[string]any{"type": "string"},
		},
		"required": []string{
			"study_title",
			"study_type",
			"principal_investigator",
			"institution",
			"study_goal",
			"data_types",
			"patient_count",
			"data_sources",
			"processing_methods",
			"pseudonymization_usage",
			"external_data_sharing",
		},
	}
}
