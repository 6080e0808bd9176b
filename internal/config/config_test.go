package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())
		for _, key := range []string{
			"SERVER_HOST", "SERVER_PORT", "DB_PATH", "INGEST_BASE_PATH", "INGEST_POLL_INTERVAL",
			"INGEST_WORKERS", "INGEST_ATOMIC_BATCH", "CONFIRMATION_KEY", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS",
			"METRICS_EXPORTER", "METRICS_EXPORT_INTERVAL",
		} {
			t.Setenv(key, "")
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.Server.Addr != "localhost:5001" {
			t.Errorf("Expected addr localhost:5001, got %s", cfg.Server.Addr)
		}
		if cfg.Ingest.PollInterval != 5*time.Second || cfg.Ingest.Workers != 2 || !cfg.Ingest.AtomicBatch {
			t.Errorf("Unexpected ingest defaults %+v", cfg.Ingest)
		}
		if len(cfg.CORS.AllowedOrigins) != 2 {
			t.Errorf("Expected 2 default origins, got %v", cfg.CORS.AllowedOrigins)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Expected log level info, got %s", cfg.Log.Level)
		}
		if cfg.Metrics.Exporter != "none" || cfg.Metrics.Interval != time.Minute {
			t.Errorf("Unexpected metrics defaults %+v", cfg.Metrics)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "8080")
		t.Setenv("INGEST_BASE_PATH", "/srv/finance")
		t.Setenv("INGEST_POLL_INTERVAL", "1m")
		t.Setenv("INGEST_WORKERS", "4")
		t.Setenv("INGEST_ATOMIC_BATCH", "false")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
		t.Setenv("METRICS_EXPORTER", "STDOUT")
		t.Setenv("METRICS_EXPORT_INTERVAL", "10s")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.Server.Port != "8080" || cfg.Ingest.BasePath != "/srv/finance" {
			t.Errorf("Unexpected config %+v", cfg)
		}
		if cfg.Ingest.PollInterval != time.Minute || cfg.Ingest.Workers != 4 || cfg.Ingest.AtomicBatch {
			t.Errorf("Unexpected ingest config %+v", cfg.Ingest)
		}
		if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
			t.Errorf("Unexpected origins %v", cfg.CORS.AllowedOrigins)
		}
		if cfg.Metrics.Exporter != "stdout" || cfg.Metrics.Interval != 10*time.Second {
			t.Errorf("Unexpected metrics config %+v", cfg.Metrics)
		}
	})

	t.Run("env file", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "")
		path := filepath.Join(t.TempDir(), "test.env")
		if err := os.WriteFile(path, []byte("LOG_LEVEL=debug\n"), 0o600); err != nil {
			t.Fatalf("Failed to write env file: %v", err)
		}
		// godotenv.Load does not override variables that are already set.
		os.Unsetenv("LOG_LEVEL")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Expected log level debug, got %s", cfg.Log.Level)
		}
	})

	t.Run("missing env file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
			t.Error("Expected error for missing env file")
		}
	})

	invalid := map[string]string{
		"INGEST_POLL_INTERVAL":    "soon",
		"INGEST_WORKERS":          "0",
		"INGEST_ATOMIC_BATCH":     "maybe",
		"METRICS_EXPORT_INTERVAL": "-1s",
	}
	for key, value := range invalid {
		t.Run("invalid "+key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s", key, value)
			}
		})
	}
}
