package audit

import "github.com/datenschutzportal/auditcore/constants"

// BuildResultSchema returns the JSON Schema (draft 2020-12 subset) the
// provider's audit payload must satisfy. Passed to the provider as an
// output constraint and used locally for the second validation pass.
func BuildResultSchema() map[string]any {
	checkResult := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"check_id": map[string]any{"type": "string", "minLength": 1},
			"status": map[string]any{
				"type": "string",
				"enum": constants.CheckStatuses,
			},
			"findings":       map[string]any{"type": "string"},
			"recommendation": map[string]any{"type": "string"},
		},
		"required": []string{"check_id", "status", "findings"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"summary": map[string]any{"type": "string", "minLength": 1},
			"results": map[string]any{
				"type":  "array",
				"items": checkResult,
			},
			"overall_status": map[string]any{
				"type": "string",
				"enum": constants.OverallStatuses,
			},
		},
		"required": []string{"summary", "results", "overall_status"},
	}
}
