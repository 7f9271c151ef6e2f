package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	AI        AIConfig
	Upload    UploadConfig
	Limits    LimitsConfig
	Checklist ChecklistConfig
	Database  DatabaseConfig
}

// AIConfig holds the structured-inference provider configuration
type AIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	ProxyURL    string
	Temperature float32
	Timeout     time.Duration
}

// UploadConfig holds file admission configuration
type UploadConfig struct {
	MaxFileBytes int64
}

// LimitsConfig holds per-client request throttling thresholds.
// Extraction is throttled harder than generation: extraction fans out
// over every uploaded file while generation is a single provider call.
type LimitsConfig struct {
	ExtractPerMinute  int
	GeneratePerMinute int
}

// ChecklistConfig points at the audit criteria artifact
type ChecklistConfig struct {
	Path string
}

// DatabaseConfig holds persistence configuration
type DatabaseConfig struct {
	Path string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		AI: AIConfig{
			BaseURL:     getEnv("AI_API_BASE_URL", "https://api.openai.com/v1"),
			APIKey:      getEnv("AI_API_KEY", ""),
			Model:       getEnv("AI_MODEL_NAME", "gpt-4-turbo-preview"),
			ProxyURL:    getEnv("AI_PROXY", ""),
			Temperature: getEnvAsFloat32("AI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("AI_TIMEOUT", 90*time.Second),
		},
		Upload: UploadConfig{
			MaxFileBytes: getEnvAsInt64("MAX_FILE_SIZE", 52428800),
		},
		Limits: LimitsConfig{
			ExtractPerMinute:  getEnvAsInt("RATE_LIMIT_EXTRACT", 5),
			GeneratePerMinute: getEnvAsInt("RATE_LIMIT_GENERATE", 3),
		},
		Checklist: ChecklistConfig{
			Path: getEnv("AUDIT_CRITERIA_PATH", "config/audit_criteria.yaml"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./auditcore.db"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.AI.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "AI_API_KEY is required", ErrInvalidInput)
	}
	if c.AI.Model == "" {
		return NewAppError("CONFIG_ERROR", "AI_MODEL_NAME is required", ErrInvalidInput)
	}
	if c.Limits.ExtractPerMinute <= 0 || c.Limits.GeneratePerMinute <= 0 {
		return NewAppError("CONFIG_ERROR", "rate limits must be positive", ErrInvalidInput)
	}
	return nil
}
