// Package config loads service configuration from the environment, after an optional .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"

	"github.com/dvloznov/finance-docproc/internal/currency"
	"github.com/dvloznov/finance-docproc/internal/extraction"
	"github.com/dvloznov/finance-docproc/internal/logger"
)

// Defaults for optional settings.
const (
	DefaultPort            = "8010"
	DefaultBigQueryDataset = "finance"
)

// ErrMissingAPIKey is returned by Load when GOOGLE_API_KEY is not set.
var ErrMissingAPIKey = errors.New("GOOGLE_API_KEY environment variable not set")

// Config holds all service configuration values. It is read-only after Load.
type Config struct {
	// Extraction
	GoogleAPIKey      string
	GeminiModel       string
	ExtractionTimeout time.Duration

	// Rates
	RatesBaseURL string
	RatesTimeout time.Duration

	// Server
	Port      string
	RateLimit *limiter.Rate // nil disables rate limiting

	// Logging
	LogLevel  zerolog.Level
	LogFormat string

	// Extraction run audit; empty project disables it.
	BigQueryProjectID string
	BigQueryDataset   string
	CredentialsFile   string
}

// Load reads a .env file if present, then the process environment.
// Variables already set in the environment take precedence over .env.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		GoogleAPIKey:      strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")),
		GeminiModel:       getEnv("GEMINI_MODEL", extraction.DefaultModelName),
		Port:              getEnv("PORT", DefaultPort),
		BigQueryProjectID: strings.TrimSpace(os.Getenv("BIGQUERY_PROJECT_ID")),
		BigQueryDataset:   getEnv("BIGQUERY_DATASET", DefaultBigQueryDataset),
		CredentialsFile:   strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_FILE")),
	}
	if cfg.GoogleAPIKey == "" {
		return nil, ErrMissingAPIKey
	}

	if err := validatePort(cfg.Port); err != nil {
		return nil, err
	}

	baseURL, err := parseBaseURL(getEnv("RATES_BASE_URL", currency.DefaultBaseURL))
	if err != nil {
		return nil, err
	}
	cfg.RatesBaseURL = baseURL

	if cfg.RatesTimeout, err = parseTimeout("RATES_TIMEOUT", os.Getenv("RATES_TIMEOUT"), currency.DefaultTimeout); err != nil {
		return nil, err
	}
	if cfg.ExtractionTimeout, err = parseTimeout("EXTRACTION_TIMEOUT", os.Getenv("EXTRACTION_TIMEOUT"), extraction.DefaultTimeout); err != nil {
		return nil, err
	}

	level, err := logger.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", os.Getenv("LOG_LEVEL"), err)
	}
	cfg.LogLevel = level

	if cfg.LogFormat, err = parseLogFormat(os.Getenv("LOG_FORMAT")); err != nil {
		return nil, err
	}

	if cfg.RateLimit, err = parseRateLimit(os.Getenv("RATE_LIMIT")); err != nil {
		return nil, err
	}

	return cfg, nil
}

// AuditEnabled reports whether extraction runs should be written to BigQuery.
func (c *Config) AuditEnabled() bool {
	return c.BigQueryProjectID != ""
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("invalid PORT %q: must be a number between 1 and 65535", s)
	}
	return nil
}

func parseBaseURL(s string) (string, error) {
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid RATES_BASE_URL %q: %w", s, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid RATES_BASE_URL %q: must be an absolute http(s) URL", s)
	}
	return strings.TrimRight(s, "/"), nil
}

func parseTimeout(name, s string, defaultVal time.Duration) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", name, d)
	}
	return d, nil
}

func parseLogFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", logger.FormatConsole:
		return logger.FormatConsole, nil
	case logger.FormatJSON:
		return logger.FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid LOG_FORMAT %q: must be console or json", s)
	}
}

// parseRateLimit accepts the limiter formatted syntax, e.g. "60-M" or "1000-H".
func parseRateLimit(s string) (*limiter.Rate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	rate, err := limiter.NewRateFromFormatted(s)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT %q: %w", s, err)
	}
	return &rate, nil
}
