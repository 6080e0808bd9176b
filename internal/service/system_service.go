package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ndewijer/finance-ingest/internal/database"
	"github.com/ndewijer/finance-ingest/internal/model"
	"github.com/ndewijer/finance-ingest/internal/version"
)

// IngestFeatures describes how the running process ingests files.
type IngestFeatures struct {
	// AtomicBatch is set when each file is persisted in one database transaction.
	AtomicBatch bool
	// SealedConfirmations is set when confirmations carry a fernet token.
	SealedConfirmations bool
}

// SystemService handles system-related operations
type SystemService struct {
	db       *sql.DB
	features IngestFeatures
}

// NewSystemService creates a new SystemService reporting the given ingestion features.
func NewSystemService(db *sql.DB, features IngestFeatures) *SystemService {
	return &SystemService{
		db:       db,
		features: features,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the application version together with the applied
// schema version and whether migrations are still pending.
func (s *SystemService) CheckVersion(ctx context.Context) (model.VersionInfo, error) {
	dbVersion, pending, err := database.SchemaStatus(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("failed to read schema status: %w", err)
	}

	info := model.VersionInfo{
		AppVersion:      version.Version,
		DbVersion:       fmt.Sprintf("%d", dbVersion),
		MigrationNeeded: pending,
		Features: map[string]bool{
			"atomic_batch":         s.features.AtomicBatch,
			"sealed_confirmations": s.features.SealedConfirmations,
		},
	}
	if pending {
		msg := "database schema is behind, run the migrate command"
		info.MigrationMessage = &msg
	}
	return info, nil
}
