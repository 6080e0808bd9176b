package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Ingest   IngestConfig
	Log      LogConfig
	Metrics  MetricsConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// IngestConfig holds the file ingestion settings.
type IngestConfig struct {
	BasePath     string
	PollInterval time.Duration
	Workers      int
	// AtomicBatch persists each file in a single database transaction.
	// When false, records are committed one by one and a failing file keeps
	// the records stored before the failure.
	AtomicBatch bool
	// ConfirmationKey is a base64 fernet key used to sign confirmations.
	// Empty disables signing.
	ConfirmationKey string
}

// MetricsConfig selects where OpenTelemetry counters are exported.
type MetricsConfig struct {
	// Exporter is "none" (in-process only) or "stdout".
	Exporter string
	Interval time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and .env files.
// With no envFiles, a .env in the working directory is loaded if present;
// explicitly named files must exist.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else {
		// Try to load .env file (ignore error if it doesn't exist)
		_ = godotenv.Load()
	}

	pollInterval, err := time.ParseDuration(getEnv("INGEST_POLL_INTERVAL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid INGEST_POLL_INTERVAL: %w", err)
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("invalid INGEST_POLL_INTERVAL: must be positive, got %s", pollInterval)
	}

	workers, err := strconv.Atoi(getEnv("INGEST_WORKERS", "2"))
	if err != nil || workers < 1 {
		return nil, fmt.Errorf("invalid INGEST_WORKERS: must be a positive integer")
	}

	atomicBatch, err := strconv.ParseBool(getEnv("INGEST_ATOMIC_BATCH", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid INGEST_ATOMIC_BATCH: %w", err)
	}

	metricsInterval, err := time.ParseDuration(getEnv("METRICS_EXPORT_INTERVAL", "60s"))
	if err != nil || metricsInterval <= 0 {
		return nil, fmt.Errorf("invalid METRICS_EXPORT_INTERVAL: must be a positive duration")
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/finance.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Ingest: IngestConfig{
			BasePath:        getEnv("INGEST_BASE_PATH", "./data"),
			PollInterval:    pollInterval,
			Workers:         workers,
			AtomicBatch:     atomicBatch,
			ConfirmationKey: os.Getenv("CONFIRMATION_KEY"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Exporter: strings.ToLower(getEnv("METRICS_EXPORTER", "none")),
			Interval: metricsInterval,
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
