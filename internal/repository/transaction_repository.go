package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/finance-ingest/internal/apperrors"
	"github.com/ndewijer/finance-ingest/internal/model"
)

// TransactionRepository provides data access methods for the transaction table.
// The guid column carries a unique constraint and is the natural key for inserts.
type TransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a new TransactionRepository scoped to the provided transaction.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *TransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const transactionColumns = `
	transaction_id, guid, account_id, account_name_owner, account_type,
	description, category, amount, transaction_date, transaction_state,
	notes, active_status, reoccurring, date_added, date_updated
`

// FindByGUID retrieves a single transaction by its guid.
// Returns ErrTransactionNotFound if no transaction with the guid exists.
func (r *TransactionRepository) FindByGUID(ctx context.Context, guid string) (*model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM "transaction" WHERE guid = ?`

	t, err := scanTransaction(r.getQuerier().QueryRowContext(ctx, query, guid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	return t, nil
}

// ExistsByGUID reports whether a transaction with the guid is stored.
func (r *TransactionRepository) ExistsByGUID(ctx context.Context, guid string) (bool, error) {
	var exists bool
	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM "transaction" WHERE guid = ?)`, guid,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query transaction table: %w", err)
	}
	return exists, nil
}

// InsertTransaction stores the transaction unless its guid is already present.
// Reports whether a row was written; a guid conflict is reported as false, not as an error.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t *model.Transaction) (bool, error) {
	query := `
		INSERT INTO "transaction" (
			guid, account_id, account_name_owner, account_type, description, category,
			amount, transaction_date, transaction_state, notes, active_status, reoccurring
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(guid) DO NOTHING
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		t.GUID,
		t.AccountID,
		t.AccountNameOwner,
		string(t.AccountType),
		t.Description,
		t.Category,
		t.Amount.StringFixed(2),
		t.TransactionDate.Format("2006-01-02"),
		string(t.TransactionState),
		t.Notes,
		t.ActiveStatus,
		t.Reoccurring,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	if id, err := result.LastInsertId(); err == nil {
		t.TransactionID = id
	}
	return true, nil
}

// GetTransactionsByAccount retrieves the active transactions of one account,
// newest first.
func (r *TransactionRepository) GetTransactionsByAccount(ctx context.Context, accountNameOwner string) ([]model.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM "transaction"
		WHERE account_name_owner = ? AND active_status = 1
		ORDER BY transaction_date DESC, transaction_id DESC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, accountNameOwner)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}
		transactions = append(transactions, *t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}

// GetTotalsByAccount sums the active transactions of one account per state.
// Amounts are stored as text, so the sum is done in decimal arithmetic here
// rather than with SQL SUM over floats.
func (r *TransactionRepository) GetTotalsByAccount(ctx context.Context, accountNameOwner string) (model.AccountTotals, error) {
	totals := model.AccountTotals{
		AccountNameOwner:  accountNameOwner,
		TotalsCleared:     decimal.Zero,
		TotalsOutstanding: decimal.Zero,
		TotalsFuture:      decimal.Zero,
		Totals:            decimal.Zero,
	}

	query := `
		SELECT transaction_state, amount
		FROM "transaction"
		WHERE account_name_owner = ? AND active_status = 1
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, accountNameOwner)
	if err != nil {
		return totals, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var state, amountStr string
		if err := rows.Scan(&state, &amountStr); err != nil {
			return totals, fmt.Errorf("failed to scan transaction table results: %w", err)
		}
		amount, err := parseAmount(amountStr)
		if err != nil {
			return totals, err
		}

		switch model.TransactionState(state) {
		case model.TransactionStateCleared:
			totals.TotalsCleared = totals.TotalsCleared.Add(amount)
		case model.TransactionStateOutstanding:
			totals.TotalsOutstanding = totals.TotalsOutstanding.Add(amount)
		case model.TransactionStateFuture:
			totals.TotalsFuture = totals.TotalsFuture.Add(amount)
		}
		totals.Totals = totals.Totals.Add(amount)
	}

	if err = rows.Err(); err != nil {
		return totals, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return totals, nil
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var t model.Transaction
	var accountType, amountStr, dateStr, state, dateAdded, dateUpdated string

	err := row.Scan(
		&t.TransactionID,
		&t.GUID,
		&t.AccountID,
		&t.AccountNameOwner,
		&accountType,
		&t.Description,
		&t.Category,
		&amountStr,
		&dateStr,
		&state,
		&t.Notes,
		&t.ActiveStatus,
		&t.Reoccurring,
		&dateAdded,
		&dateUpdated,
	)
	if err != nil {
		return nil, err
	}
	t.AccountType = model.AccountType(accountType)
	t.TransactionState = model.TransactionState(state)

	if t.Amount, err = parseAmount(amountStr); err != nil {
		return nil, err
	}
	if t.TransactionDate, err = ParseTime(dateStr); err != nil {
		return nil, err
	}
	if t.DateAdded, err = ParseTime(dateAdded); err != nil {
		return nil, err
	}
	if t.DateUpdated, err = ParseTime(dateUpdated); err != nil {
		return nil, err
	}
	return &t, nil
}
