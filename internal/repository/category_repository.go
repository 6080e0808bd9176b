package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/finance-ingest/internal/apperrors"
	"github.com/ndewijer/finance-ingest/internal/model"
)

// CategoryRepository provides data access methods for the category table.
type CategoryRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewCategoryRepository creates a new CategoryRepository with the provided database connection.
func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// WithTx returns a new CategoryRepository scoped to the provided transaction.
func (r *CategoryRepository) WithTx(tx *sql.Tx) *CategoryRepository {
	return &CategoryRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *CategoryRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// FindByCategory retrieves a category by name.
// Returns ErrCategoryNotFound if it does not exist.
func (r *CategoryRepository) FindByCategory(ctx context.Context, name string) (*model.Category, error) {
	query := `
		SELECT category_id, category, active_status, date_added
		FROM category
		WHERE category = ?
	`

	c, err := scanCategory(r.getQuerier().QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category table: %w", err)
	}
	return c, nil
}

// InsertCategory creates the category unless it already exists and reports
// whether a row was written.
func (r *CategoryRepository) InsertCategory(ctx context.Context, name string) (bool, error) {
	query := `
		INSERT INTO category (category, active_status)
		VALUES (?, 1)
		ON CONFLICT(category) DO NOTHING
	`

	result, err := r.getQuerier().ExecContext(ctx, query, name)
	if err != nil {
		return false, fmt.Errorf("failed to insert category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// GetActiveCategories returns all active categories ordered by name.
func (r *CategoryRepository) GetActiveCategories(ctx context.Context) ([]model.Category, error) {
	query := `
		SELECT category_id, category, active_status, date_added
		FROM category
		WHERE active_status = 1
		ORDER BY category ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query category table: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category table results: %w", err)
		}
		categories = append(categories, *c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category table: %w", err)
	}

	return categories, nil
}

func scanCategory(row rowScanner) (*model.Category, error) {
	var c model.Category
	var dateAdded string

	if err := row.Scan(&c.CategoryID, &c.Category, &c.ActiveStatus, &dateAdded); err != nil {
		return nil, err
	}

	var err error
	if c.DateAdded, err = ParseTime(dateAdded); err != nil {
		return nil, err
	}
	return &c, nil
}
