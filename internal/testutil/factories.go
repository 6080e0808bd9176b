package testutil

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/finance-ingest/internal/model"
	"github.com/ndewijer/finance-ingest/internal/repository"
)

// RecordBuilder provides a fluent interface for creating wire-format transaction records.
// The defaults pass every field rule.
//
// Example usage:
//
//	// Simple creation with defaults
//	rec := testutil.NewRecord().Record()
//
//	// Customized record stored directly in the database
//	tx := testutil.NewRecord().
//	    WithAccount("foo_brian").
//	    WithAmount("12.50").
//	    Build(t, db)
type RecordBuilder struct {
	rec model.TransactionRecord
}

// NewRecord creates a RecordBuilder with sensible defaults.
func NewRecord() *RecordBuilder {
	return &RecordBuilder{
		rec: model.TransactionRecord{
			GUID:             MakeID(),
			AccountNameOwner: "test_account",
			AccountType:      model.AccountTypeCredit,
			Description:      "test transaction",
			Category:         "groceries",
			Amount:           decimal.NewNullDecimal(decimal.RequireFromString("10.00")),
			TransactionDate:  "2024-01-15",
			TransactionState: model.TransactionStateCleared,
		},
	}
}

// WithGUID sets a custom guid.
func (b *RecordBuilder) WithGUID(guid string) *RecordBuilder {
	b.rec.GUID = guid
	return b
}

// WithAccount sets the accountNameOwner.
func (b *RecordBuilder) WithAccount(name string) *RecordBuilder {
	b.rec.AccountNameOwner = name
	return b
}

// WithAccountType sets the account type.
func (b *RecordBuilder) WithAccountType(accountType model.AccountType) *RecordBuilder {
	b.rec.AccountType = accountType
	return b
}

// WithDescription sets the description.
func (b *RecordBuilder) WithDescription(desc string) *RecordBuilder {
	b.rec.Description = desc
	return b
}

// WithCategory sets the category; an empty string means no category.
func (b *RecordBuilder) WithCategory(category string) *RecordBuilder {
	b.rec.Category = category
	return b
}

// WithAmount sets the amount from its decimal string form.
func (b *RecordBuilder) WithAmount(amount string) *RecordBuilder {
	b.rec.Amount = decimal.NewNullDecimal(decimal.RequireFromString(amount))
	return b
}

// WithDate sets the transaction date (YYYY-MM-DD).
func (b *RecordBuilder) WithDate(date string) *RecordBuilder {
	b.rec.TransactionDate = date
	return b
}

// WithState sets the transaction state.
func (b *RecordBuilder) WithState(state model.TransactionState) *RecordBuilder {
	b.rec.TransactionState = state
	return b
}

// WithNotes sets the notes.
func (b *RecordBuilder) WithNotes(notes string) *RecordBuilder {
	b.rec.Notes = notes
	return b
}

// Inactive marks the record as inactive.
func (b *RecordBuilder) Inactive() *RecordBuilder {
	active := false
	b.rec.ActiveStatus = &active
	return b
}

// Record returns the built record without touching the database.
func (b *RecordBuilder) Record() model.TransactionRecord {
	return b.rec
}

// Build stores the record directly in the database, creating its account if needed,
// and returns the stored row.
func (b *RecordBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	account := CreateAccount(t, db, b.rec.AccountNameOwner, b.rec.AccountType)

	query := `
		INSERT INTO "transaction" (
			guid, account_id, account_name_owner, account_type, description, category,
			amount, transaction_date, transaction_state, notes, active_status, reoccurring
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.Exec(query,
		b.rec.GUID,
		account.AccountID,
		b.rec.AccountNameOwner,
		string(b.rec.AccountType),
		b.rec.Description,
		b.rec.Category,
		b.rec.Amount.Decimal.StringFixed(2),
		b.rec.TransactionDate,
		string(b.rec.TransactionState),
		b.rec.Notes,
		b.rec.IsActive(),
		b.rec.Reoccurring,
	)
	if err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}

	stored, err := repository.NewTransactionRepository(db).FindByGUID(t.Context(), b.rec.GUID)
	if err != nil {
		t.Fatalf("Failed to read back transaction: %v", err)
	}
	return *stored
}

// CreateAccount returns the account with the given name, creating it first if needed.
func CreateAccount(t *testing.T, db *sql.DB, name string, accountType model.AccountType) model.Account {
	t.Helper()

	repo := repository.NewAccountRepository(db)
	if _, err := repo.InsertAccount(t.Context(), name, accountType); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}
	account, err := repo.FindByAccountNameOwner(t.Context(), name)
	if err != nil {
		t.Fatalf("Failed to read back account: %v", err)
	}
	return *account
}

// CreateCategory creates a category with the given name if it does not exist yet.
func CreateCategory(t *testing.T, db *sql.DB, name string) {
	t.Helper()

	if _, err := repository.NewCategoryRepository(db).InsertCategory(t.Context(), name); err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
}

// BatchJSON encodes records as a batch file body.
//
// Example usage:
//
//	body := testutil.BatchJSON(t, rec1, rec2)
//	// Returns: [{"guid":"...",...},{"guid":"...",...}]
func BatchJSON(t *testing.T, records ...model.TransactionRecord) []byte {
	t.Helper()

	if records == nil {
		records = []model.TransactionRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("Failed to encode batch: %v", err)
	}
	return data
}
