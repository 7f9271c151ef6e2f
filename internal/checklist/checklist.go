// Package checklist loads the audit criteria the auditor judges
// documents against.
package checklist

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Item is one named criterion. Immutable once loaded.
type Item struct {
	ID          string `yaml:"id" json:"id"`
	Category    string `yaml:"category" json:"category"`
	Description string `yaml:"description" json:"description"`
}

// Criteria is the ordered checklist plus the auditor system prompt.
type Criteria struct {
	Items        []Item `yaml:"check_items" json:"check_items"`
	SystemPrompt string `yaml:"system_prompt" json:"system_prompt"`
}

// HasID reports whether id names one of the checklist items.
func (c Criteria) HasID(id string) bool {
	for _, item := range c.Items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// defaultCriteria is the hardcoded fallback used when the YAML artifact
// is absent or invalid.
func defaultCriteria() Criteria {
	return Criteria{
		Items: []Item{
			{
				ID:          "general_completeness",
				Category:    "General",
				Description: "Sind alle notwendigen Dokumente vorhanden (VVT, Datenschutzkonzept, TOMs)?",
			},
			{
				ID:          "vvt_legal_basis",
				Category:    "VVT",
				Description: "Ist für jede Verarbeitungstätigkeit eine Rechtsgrundlage angegeben (z.B. Art. 6 DSGVO)?",
			},
		},
		SystemPrompt: "Du bist ein Datenschutz-Auditor. Prüfe die Dokumente.",
	}
}

// Load reads criteria from the YAML artifact at path. It never fails:
// a missing or unparseable artifact falls back to the hardcoded
// defaults with a log entry.
func Load(path string, logger *slog.Logger) Criteria {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("checklist.load_fallback", "path", path, "error", err)
		return defaultCriteria()
	}

	var c Criteria
	if err := yaml.Unmarshal(data, &c); err != nil {
		logger.Error("checklist.parse_fallback", "path", path, "error", err)
		return defaultCriteria()
	}
	if err := validate(c); err != nil {
		logger.Error("checklist.invalid_fallback", "path", path, "error", err)
		return defaultCriteria()
	}

	logger.Info("checklist.loaded", "path", path, "items", len(c.Items))
	return c
}

func validate(c Criteria) error {
	if len(c.Items) == 0 {
		return fmt.Errorf("no check items")
	}
	if strings.TrimSpace(c.SystemPrompt) == "" {
		return fmt.Errorf("empty system prompt")
	}
	seen := make(map[string]struct{}, len(c.Items))
	for _, item := range c.Items {
		if strings.TrimSpace(item.ID) == "" {
			return fmt.Errorf("check item with empty id")
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("duplicate check id %q", item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

// Store holds the criteria loaded once at startup and hands out the
// current value. Reload is synchronized so hot-reloading never races
// with readers.
type Store struct {
	mu      sync.RWMutex
	path    string
	logger  *slog.Logger
	current Criteria
}

func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:    path,
		logger:  logger,
		current: Load(path, logger),
	}
}

// Current returns the loaded criteria.
func (s *Store) Current() Criteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Reload re-reads the artifact. Like Load it cannot fail; the worst
// outcome is falling back to the defaults.
func (s *Store) Reload() {
	c := Load(s.path, s.logger)
	s.mu.Lock()
	s.current = c
	s.mu.Unlock()
}
