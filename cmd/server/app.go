package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/ndewijer/finance-ingest/internal/config"
	"github.com/ndewijer/finance-ingest/internal/database"
	"github.com/ndewijer/finance-ingest/internal/ingest"
	"github.com/ndewijer/finance-ingest/internal/metrics"
	"github.com/ndewijer/finance-ingest/internal/repository"
	"github.com/ndewijer/finance-ingest/internal/service"
)

// meterName scopes the OpenTelemetry instruments of this process.
const meterName = "finance-ingest"

// app holds the wired dependencies shared by the commands.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	db       *sql.DB
	counters *metrics.Memory
	meters   *sdkmetric.MeterProvider

	systemService      *service.SystemService
	accountService     *service.AccountService
	transactionService *service.TransactionService
	orchestrator       *ingest.Orchestrator
}

// openDB opens the database, creating its parent directory, and applies migrations.
func openDB(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*sql.DB, error) {
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	schemaVersion, err := database.Migrate(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Str("path", cfg.Database.Path).Int64("schema_version", schemaVersion).Msg("database ready")
	return db, nil
}

// newApp opens the database and wires repositories, services and the orchestrator.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	db, err := openDB(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	var sealer *ingest.Sealer
	if cfg.Ingest.ConfirmationKey != "" {
		if sealer, err = ingest.NewSealer(cfg.Ingest.ConfirmationKey); err != nil {
			db.Close()
			return nil, err
		}
	}

	meters, err := metrics.NewMeterProvider(cfg.Metrics.Exporter, os.Stdout, cfg.Metrics.Interval)
	if err != nil {
		db.Close()
		return nil, err
	}
	otel.SetMeterProvider(meters)

	counters := metrics.NewMemory()
	sink := metrics.Multi{counters, metrics.NewOTel(meters.Meter(meterName))}

	transactionRepo := repository.NewTransactionRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)

	transactionService := service.NewTransactionService(db, transactionRepo, accountRepo, categoryRepo, sink)

	orchestrator := ingest.New(
		ingest.Config{
			Dirs:         ingest.DirsFromBase(cfg.Ingest.BasePath),
			PollInterval: cfg.Ingest.PollInterval,
			Workers:      cfg.Ingest.Workers,
		},
		ingest.NewPipeline(transactionService, cfg.Ingest.AtomicBatch),
		sealer,
		sink,
		log,
	)

	systemService := service.NewSystemService(db, service.IngestFeatures{
		AtomicBatch:         cfg.Ingest.AtomicBatch,
		SealedConfirmations: sealer != nil,
	})

	return &app{
		cfg:                cfg,
		log:                log,
		db:                 db,
		counters:           counters,
		meters:             meters,
		systemService:      systemService,
		accountService:     service.NewAccountService(accountRepo, categoryRepo),
		transactionService: transactionService,
		orchestrator:       orchestrator,
	}, nil
}

// Close flushes the metric exporter and closes the database.
func (a *app) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return errors.Join(a.meters.Shutdown(ctx), a.db.Close())
}
