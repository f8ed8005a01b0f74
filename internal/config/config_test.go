package config

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allVars = []string{
	"GOOGLE_API_KEY", "GEMINI_MODEL", "PORT", "RATES_BASE_URL", "RATES_TIMEOUT",
	"EXTRACTION_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT", "RATE_LIMIT",
	"BIGQUERY_PROJECT_ID", "BIGQUERY_DATASET", "GOOGLE_APPLICATION_CREDENTIALS_FILE",
}

// clearEnv blanks every variable the config reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allVars {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "test-key")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.GoogleAPIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, "8010", cfg.Port)
	assert.Equal(t, ":8010", cfg.Addr())
	assert.Equal(t, "https://api.frankfurter.app", cfg.RatesBaseURL)
	assert.Equal(t, 5*time.Second, cfg.RatesTimeout)
	assert.Equal(t, 60*time.Second, cfg.ExtractionTimeout)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Nil(t, cfg.RateLimit)
	assert.False(t, cfg.AuditEnabled())
	assert.Equal(t, "finance", cfg.BigQueryDataset)
}

func TestFromEnv_MissingAPIKey(t *testing.T) {
	clearEnv(t)

	_, err := FromEnv()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "k")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("PORT", "9090")
	t.Setenv("RATES_BASE_URL", "http://localhost:8081/")
	t.Setenv("RATES_TIMEOUT", "2s")
	t.Setenv("EXTRACTION_TIMEOUT", "90s")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("RATE_LIMIT", "60-M")
	t.Setenv("BIGQUERY_PROJECT_ID", "my-project")
	t.Setenv("BIGQUERY_DATASET", "audit")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://localhost:8081", cfg.RatesBaseURL)
	assert.Equal(t, 2*time.Second, cfg.RatesTimeout)
	assert.Equal(t, 90*time.Second, cfg.ExtractionTimeout)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	require.NotNil(t, cfg.RateLimit)
	assert.Equal(t, int64(60), cfg.RateLimit.Limit)
	assert.Equal(t, time.Minute, cfg.RateLimit.Period)
	assert.True(t, cfg.AuditEnabled())
	assert.Equal(t, "audit", cfg.BigQueryDataset)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PORT", "http"},
		{"PORT", "70000"},
		{"RATES_BASE_URL", "ftp://rates.example.com"},
		{"RATES_BASE_URL", "/latest"},
		{"RATES_TIMEOUT", "soon"},
		{"RATES_TIMEOUT", "-1s"},
		{"EXTRACTION_TIMEOUT", "0s"},
		{"LOG_LEVEL", "verbose"},
		{"LOG_FORMAT", "xml"},
		{"RATE_LIMIT", "lots"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("GOOGLE_API_KEY", "k")
			t.Setenv(tt.key, tt.value)

			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_WithoutDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.GoogleAPIKey)
}
