package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{
		"AI_API_BASE_URL", "AI_MODEL_NAME", "AI_TIMEOUT",
		"MAX_FILE_SIZE", "RATE_LIMIT_EXTRACT", "RATE_LIMIT_GENERATE",
		"AUDIT_CRITERIA_PATH",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "https://api.openai.com/v1", cfg.AI.BaseURL)
	require.Equal(t, "gpt-4-turbo-preview", cfg.AI.Model)
	require.Equal(t, 90*time.Second, cfg.AI.Timeout)
	require.Equal(t, int64(52428800), cfg.Upload.MaxFileBytes)
	require.Equal(t, 5, cfg.Limits.ExtractPerMinute)
	require.Equal(t, 3, cfg.Limits.GeneratePerMinute)
	require.Equal(t, "config/audit_criteria.yaml", cfg.Checklist.Path)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("AI_MODEL_NAME", "gpt-4o")
	t.Setenv("AI_TEMPERATURE", "0.2")
	t.Setenv("AI_TIMEOUT", "30s")
	t.Setenv("MAX_FILE_SIZE", "1024")
	t.Setenv("RATE_LIMIT_EXTRACT", "10")

	cfg := LoadConfig()
	require.Equal(t, "gpt-4o", cfg.AI.Model)
	require.InDelta(t, 0.2, float64(cfg.AI.Temperature), 0.001)
	require.Equal(t, 30*time.Second, cfg.AI.Timeout)
	require.Equal(t, int64(1024), cfg.Upload.MaxFileBytes)
	require.Equal(t, 10, cfg.Limits.ExtractPerMinute)
}

func TestLoadConfig_BadEnvValuesFallBack(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE", "not-a-number")
	t.Setenv("AI_TIMEOUT", "soon")

	cfg := LoadConfig()
	require.Equal(t, int64(52428800), cfg.Upload.MaxFileBytes)
	require.Equal(t, 90*time.Second, cfg.AI.Timeout)
}

func TestValidate(t *testing.T) {
	t.Setenv("AI_API_KEY", "sk-test")
	cfg := LoadConfig()
	require.NoError(t, cfg.Validate())

	cfg.AI.APIKey = ""
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "AI_API_KEY")

	cfg.AI.APIKey = "sk-test"
	cfg.Limits.ExtractPerMinute = 0
	require.Error(t, cfg.Validate())
}
