package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/finance-ingest/internal/apperrors"
	"github.com/ndewijer/finance-ingest/internal/logger"
	"github.com/ndewijer/finance-ingest/internal/metrics"
	"github.com/ndewijer/finance-ingest/internal/model"
	"github.com/ndewijer/finance-ingest/internal/repository"
)

// PersistStatus is the outcome of persisting one valid record.
type PersistStatus string

const (
	// StatusInserted means a new transaction row was written.
	StatusInserted PersistStatus = "inserted"
	// StatusDuplicate means the guid was already stored and nothing was written.
	StatusDuplicate PersistStatus = "duplicate"
)

// BatchResult counts the statuses of a persisted batch.
type BatchResult struct {
	Inserted   int
	Duplicates int
}

func (b *BatchResult) add(status PersistStatus) {
	switch status {
	case StatusInserted:
		b.Inserted++
	case StatusDuplicate:
		b.Duplicates++
	}
}

// TransactionService persists ingested transaction records and serves the
// stored transactions back to the API.
//
// Every write runs inside a database transaction that covers the guid lookup,
// the account and category get-or-create and the insert itself. The unique
// constraints on guid, account name and category name make each step safe
// against concurrent ingestion of the same keys.
type TransactionService struct {
	db              *sql.DB
	transactionRepo *repository.TransactionRepository
	accountRepo     *repository.AccountRepository
	categoryRepo    *repository.CategoryRepository
	sink            metrics.Sink
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
// A nil sink discards all counters.
func NewTransactionService(
	db *sql.DB,
	transactionRepo *repository.TransactionRepository,
	accountRepo *repository.AccountRepository,
	categoryRepo *repository.CategoryRepository,
	sink metrics.Sink,
) *TransactionService {
	if sink == nil {
		sink = metrics.Nop{}
	}
	return &TransactionService{
		db:              db,
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		categoryRepo:    categoryRepo,
		sink:            sink,
	}
}

// Persist stores one valid record in its own database transaction.
// A record whose guid is already stored is reported as StatusDuplicate, not as an error.
// Any store failure is returned wrapped in apperrors.ErrPersistence.
func (s *TransactionService) Persist(ctx context.Context, rec model.TransactionRecord) (PersistStatus, error) {
	s.count(ctx, metrics.TransactionAttempted, rec)

	status, err := s.inTx(ctx, func(tx *sql.Tx) (PersistStatus, error) {
		return s.persistRecord(ctx, tx, rec)
	})
	if err != nil {
		s.count(ctx, metrics.TransactionFailed, rec)
		return "", fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
	}

	s.count(ctx, s.statusCounter(status), rec)
	return status, nil
}

// PersistBatch stores all records in a single database transaction.
// Either every record is committed or none is. The first failing record aborts
// the batch and the returned error names its position and guid.
//
// Inserted and duplicate counters are only emitted once the batch has committed.
func (s *TransactionService) PersistBatch(ctx context.Context, records []model.TransactionRecord) (BatchResult, error) {
	var result BatchResult
	if len(records) == 0 {
		return result, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrPersistence, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after a successful commit

	statuses := make([]PersistStatus, 0, len(records))
	for i, rec := range records {
		s.count(ctx, metrics.TransactionAttempted, rec)

		status, err := s.persistRecord(ctx, tx, rec)
		if err != nil {
			s.count(ctx, metrics.TransactionFailed, rec)
			return BatchResult{}, fmt.Errorf("%w: record %d (guid %s): %w", apperrors.ErrPersistence, i, rec.GUID, err)
		}
		statuses = append(statuses, status)
	}

	if err := tx.Commit(); err != nil {
		for _, rec := range records {
			s.count(ctx, metrics.TransactionFailed, rec)
		}
		return BatchResult{}, fmt.Errorf("%w: failed to commit transaction: %w", apperrors.ErrPersistence, err)
	}

	for i, status := range statuses {
		s.count(ctx, s.statusCounter(status), records[i])
		result.add(status)
	}
	return result, nil
}

// GetTransaction retrieves a single transaction by its guid.
// Returns apperrors.ErrTransactionNotFound if no transaction with the guid exists.
func (s *TransactionService) GetTransaction(ctx context.Context, guid string) (*model.Transaction, error) {
	return s.transactionRepo.FindByGUID(ctx, guid)
}

// GetTransactionsByAccount retrieves the active transactions of one account, newest first.
// A non-empty state keeps only the transactions in that clearing state.
func (s *TransactionService) GetTransactionsByAccount(ctx context.Context, accountNameOwner string, state model.TransactionState) ([]model.Transaction, error) {
	transactions, err := s.transactionRepo.GetTransactionsByAccount(ctx, accountNameOwner)
	if err != nil || state == "" {
		return transactions, err
	}

	filtered := []model.Transaction{}
	for _, t := range transactions {
		if t.TransactionState == state {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// GetAccountTotals sums the active transactions of one account per clearing state.
func (s *TransactionService) GetAccountTotals(ctx context.Context, accountNameOwner string) (model.AccountTotals, error) {
	return s.transactionRepo.GetTotalsByAccount(ctx, accountNameOwner)
}

func (s *TransactionService) inTx(ctx context.Context, fn func(tx *sql.Tx) (PersistStatus, error)) (PersistStatus, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after a successful commit

	status, err := fn(tx)
	if err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return status, nil
}

// persistRecord runs the dedup, get-or-create and insert sequence for one record.
func (s *TransactionService) persistRecord(ctx context.Context, tx *sql.Tx, rec model.TransactionRecord) (PersistStatus, error) {
	transactionRepo := s.transactionRepo.WithTx(tx)

	exists, err := transactionRepo.ExistsByGUID(ctx, rec.GUID)
	if err != nil {
		return "", err
	}
	if exists {
		return StatusDuplicate, nil
	}

	account, err := s.getOrCreateAccount(ctx, tx, rec.AccountNameOwner, rec.AccountType)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(rec.Category) != "" {
		if err := s.getOrCreateCategory(ctx, tx, rec.Category); err != nil {
			return "", err
		}
	}

	transactionDate, err := time.Parse("2006-01-02", rec.TransactionDate)
	if err != nil {
		return "", fmt.Errorf("invalid transaction date %q: %w", rec.TransactionDate, err)
	}

	t := &model.Transaction{
		GUID:             rec.GUID,
		AccountID:        account.AccountID,
		AccountNameOwner: rec.AccountNameOwner,
		AccountType:      rec.AccountType,
		Description:      rec.Description,
		Category:         rec.Category,
		Amount:           rec.Amount.Decimal,
		TransactionDate:  transactionDate,
		TransactionState: rec.TransactionState,
		Notes:            rec.Notes,
		ActiveStatus:     rec.IsActive(),
		Reoccurring:      rec.Reoccurring,
	}

	inserted, err := transactionRepo.InsertTransaction(ctx, t)
	if err != nil {
		return "", err
	}
	if !inserted {
		// Another writer stored the same guid between the lookup and the insert.
		return StatusDuplicate, nil
	}
	return StatusInserted, nil
}

func (s *TransactionService) getOrCreateAccount(ctx context.Context, tx *sql.Tx, name string, accountType model.AccountType) (*model.Account, error) {
	accountRepo := s.accountRepo.WithTx(tx)

	account, err := accountRepo.FindByAccountNameOwner(ctx, name)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, apperrors.ErrAccountNotFound) {
		return nil, err
	}

	created, err := accountRepo.InsertAccount(ctx, name, accountType)
	if err != nil {
		return nil, err
	}
	if created {
		log := logger.FromContext(ctx)
		log.Info().Str("account", name).Msg("created account on first reference")
	}

	return accountRepo.FindByAccountNameOwner(ctx, name)
}

func (s *TransactionService) getOrCreateCategory(ctx context.Context, tx *sql.Tx, name string) error {
	categoryRepo := s.categoryRepo.WithTx(tx)

	_, err := categoryRepo.FindByCategory(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrCategoryNotFound) {
		return err
	}

	created, err := categoryRepo.InsertCategory(ctx, name)
	if err != nil {
		return err
	}
	if created {
		log := logger.FromContext(ctx)
		log.Info().Str("category", name).Msg("created category on first reference")
	}
	return nil
}

func (s *TransactionService) statusCounter(status PersistStatus) string {
	if status == StatusDuplicate {
		return metrics.TransactionDuplicate
	}
	return metrics.TransactionInserted
}

func (s *TransactionService) count(ctx context.Context, name string, rec model.TransactionRecord) {
	s.sink.Increment(ctx, name, metrics.T(metrics.TagAccount, rec.AccountNameOwner))
}
