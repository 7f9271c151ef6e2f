package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// SanitizeOptionalFields drops optional top-level keys whose value is
// null or a blank string before the strict schema pass. Providers in
// JSON output mode routinely emit null for fields they could not fill;
// the defaults applied after decoding cover those anyway. Only the
// listed OPTIONAL keys are touched; required fields stay as delivered
// so the validator can report them.
func SanitizeOptionalFields(raw []byte, optional []string, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := DropNullOptionals(m, optional)
	if len(dropped) == 0 {
		return raw, nil, nil
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	logger.Warn("llm.sanitize.dropped", "fields", dropped)
	return out, dropped, nil
}

// DropNullOptionals removes the listed keys from m when their value is
// null or a blank string and reports which were dropped. Values of any
// other type are left for the schema pass to judge.
func DropNullOptionals(m map[string]any, optional []string) []string {
	var dropped []string
	for _, k := range optional {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case nil:
			delete(m, k)
			dropped = append(dropped, k+"(null)")
		case string:
			if strings.TrimSpace(t) == "" {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			}
		}
	}
	return dropped
}
