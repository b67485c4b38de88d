// Package config loads the application configuration from defaults, an
// optional .env file in the data directory, and SSTCHECK_* environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Historic Venezuelan reference values; both are user-editable at runtime.
const (
	DefaultFineUnit     = 45.0  // tax unit (U.T.) in Bs.
	DefaultExchangeRate = 56.40 // BCV reference rate
)

// Config holds every tunable of the service.
type Config struct {
	DataDir     string
	ListenHost  string
	ListenPort  int
	MetricsPort int

	LogLevel  string
	LogFormat string
	LogFile   string

	// History backend: "json" (single slot file) or "sqlite".
	HistoryBackend string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration

	FineUnit     float64
	ExchangeRate float64
}

// Load builds the configuration. A .env file in the data directory (then the
// working directory) is applied before the environment is read.
func Load() (*Config, error) {
	dataDir := "/var/lib/sstcheck"
	if dir := os.Getenv("SSTCHECK_DATA_DIR"); dir != "" {
		dataDir = dir
	}

	envFile := filepath.Join(dataDir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			log.Warn().Err(err).Str("file", envFile).Msg("Failed to load .env file")
		}
	}
	// Development convenience: .env in the working directory.
	_ = godotenv.Load()

	cfg := &Config{
		DataDir:        dataDir,
		ListenHost:     "127.0.0.1",
		ListenPort:     7410,
		MetricsPort:    9410,
		LogLevel:       "info",
		LogFormat:      "auto",
		HistoryBackend: "json",
		GeminiModel:    "gemini-3-pro-preview",
		GeminiTimeout:  120 * time.Second,
		FineUnit:       DefaultFineUnit,
		ExchangeRate:   DefaultExchangeRate,
	}

	if v := os.Getenv("SSTCHECK_HOST"); v != "" {
		cfg.ListenHost = v
	}
	if v := os.Getenv("SSTCHECK_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid SSTCHECK_PORT %q", v)
		}
		cfg.ListenPort = port
	}
	if v := os.Getenv("SSTCHECK_METRICS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid SSTCHECK_METRICS_PORT %q", v)
		}
		cfg.MetricsPort = port
	}
	if v := os.Getenv("SSTCHECK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SSTCHECK_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("SSTCHECK_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("SSTCHECK_HISTORY_BACKEND"); v != "" {
		if v != "json" && v != "sqlite" {
			return nil, fmt.Errorf("invalid SSTCHECK_HISTORY_BACKEND %q (want json or sqlite)", v)
		}
		cfg.HistoryBackend = v
	}
	if v := os.Getenv("SSTCHECK_GEMINI_API_KEY"); v != "" {
		cfg.GeminiAPIKey = v
	} else if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := os.Getenv("SSTCHECK_GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	if v := os.Getenv("SSTCHECK_GEMINI_BASE_URL"); v != "" {
		cfg.GeminiBaseURL = v
	}
	if v := os.Getenv("SSTCHECK_FINE_UNIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("invalid SSTCHECK_FINE_UNIT %q", v)
		}
		cfg.FineUnit = f
	}
	if v := os.Getenv("SSTCHECK_EXCHANGE_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("invalid SSTCHECK_EXCHANGE_RATE %q", v)
		}
		cfg.ExchangeRate = f
	}

	return cfg, nil
}
