package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/ndewijer/finance-ingest/internal/metrics"
	"github.com/ndewijer/finance-ingest/internal/repository"
	"github.com/ndewijer/finance-ingest/internal/service"
)

// NewTestTransactionService creates a TransactionService over db that records
// its counters in sink. A nil sink discards counters.
func NewTestTransactionService(t *testing.T, db *sql.DB, sink metrics.Sink) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(
		db,
		repository.NewTransactionRepository(db),
		repository.NewAccountRepository(db),
		repository.NewCategoryRepository(db),
		sink,
	)
}

func NewTestAccountService(t *testing.T, db *sql.DB) *service.AccountService {
	t.Helper()

	return service.NewAccountService(
		repository.NewAccountRepository(db),
		repository.NewCategoryRepository(db),
	)
}

// NewTestSystemService creates a SystemService reporting atomic batches and unsealed confirmations.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db, service.IngestFeatures{AtomicBatch: true})
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeAccountName generates a unique, valid accountNameOwner for testing.
//
// Example usage:
//
//	name := testutil.MakeAccountName("chase")
//	// Returns: "chase_qwerty"
func MakeAccountName(base string) string {
	if base == "" {
		base = "account"
	}
	return base + "_" + randomLetters(6)
}

// MakeCategoryName generates a unique, valid category name for testing.
func MakeCategoryName(base string) string {
	if base == "" {
		base = "category"
	}
	return base + "_" + randomLetters(6)
}

// randomLetters generates a random lowercase string of specified length.
func randomLetters(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
