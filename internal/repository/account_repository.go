package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/finance-ingest/internal/apperrors"
	"github.com/ndewijer/finance-ingest/internal/model"
)

// AccountRepository provides data access methods for the account table.
type AccountRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewAccountRepository creates a new AccountRepository with the provided database connection.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// WithTx returns a new AccountRepository scoped to the provided transaction.
func (r *AccountRepository) WithTx(tx *sql.Tx) *AccountRepository {
	return &AccountRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *AccountRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const accountColumns = `
	account_id, account_name_owner, account_type, active_status, moniker,
	cleared, outstanding, future, date_added, date_updated
`

// FindByAccountNameOwner retrieves an account by its unique name.
// Returns ErrAccountNotFound if no account with that name exists.
func (r *AccountRepository) FindByAccountNameOwner(ctx context.Context, accountNameOwner string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM account WHERE account_name_owner = ?`

	a, err := scanAccount(r.getQuerier().QueryRowContext(ctx, query, accountNameOwner))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account table: %w", err)
	}
	return a, nil
}

// InsertAccount creates an account with default balances unless one with the same
// name already exists. Reports whether a row was written; losing a race against a
// concurrent insert of the same name is not an error.
func (r *AccountRepository) InsertAccount(ctx context.Context, accountNameOwner string, accountType model.AccountType) (bool, error) {
	query := `
		INSERT INTO account (account_name_owner, account_type, active_status, moniker, cleared, outstanding, future)
		VALUES (?, ?, 1, ?, '0', '0', '0')
		ON CONFLICT(account_name_owner) DO NOTHING
	`

	result, err := r.getQuerier().ExecContext(ctx, query, accountNameOwner, string(accountType), model.DefaultMoniker)
	if err != nil {
		return false, fmt.Errorf("failed to insert account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// GetActiveAccounts returns all active accounts ordered by name.
func (r *AccountRepository) GetActiveAccounts(ctx context.Context) ([]model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM account WHERE active_status = 1 ORDER BY account_name_owner ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query account table: %w", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account table results: %w", err)
		}
		accounts = append(accounts, *a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account table: %w", err)
	}

	return accounts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*model.Account, error) {
	var a model.Account
	var accountType, cleared, outstanding, future, dateAdded, dateUpdated string

	err := row.Scan(
		&a.AccountID,
		&a.AccountNameOwner,
		&accountType,
		&a.ActiveStatus,
		&a.Moniker,
		&cleared,
		&outstanding,
		&future,
		&dateAdded,
		&dateUpdated,
	)
	if err != nil {
		return nil, err
	}
	a.AccountType = model.AccountType(accountType)

	if a.Cleared, err = parseAmount(cleared); err != nil {
		return nil, err
	}
	if a.Outstanding, err = parseAmount(outstanding); err != nil {
		return nil, err
	}
	if a.Future, err = parseAmount(future); err != nil {
		return nil, err
	}
	if a.DateAdded, err = ParseTime(dateAdded); err != nil {
		return nil, err
	}
	if a.DateUpdated, err = ParseTime(dateUpdated); err != nil {
		return nil, err
	}
	return &a, nil
}
