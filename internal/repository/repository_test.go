package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/finance-ingest/internal/apperrors"
	"github.com/ndewijer/finance-ingest/internal/model"
	"github.com/ndewijer/finance-ingest/internal/repository"
	"github.com/ndewijer/finance-ingest/internal/testutil"
)

func TestTransactionRepository_InsertTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("guid conflict reports no insert", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		stored := testutil.NewRecord().Build(t, db)

		inserted, err := repository.NewTransactionRepository(db).InsertTransaction(ctx, &stored)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if inserted {
			t.Error("Expected a guid conflict to report no insert")
		}
		testutil.AssertRowCount(t, db, `"transaction"`, 1)
	})

	t.Run("stores the amount with two decimals", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewTransactionRepository(db)
		account := testutil.CreateAccount(t, db, "foo_brian", model.AccountTypeCredit)

		tx := &model.Transaction{
			GUID:             testutil.MakeID(),
			AccountID:        account.AccountID,
			AccountNameOwner: account.AccountNameOwner,
			AccountType:      model.AccountTypeCredit,
			Description:      "coffee",
			Amount:           decimal.RequireFromString("7.5"),
			TransactionDate:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			TransactionState: model.TransactionStateCleared,
			ActiveStatus:     true,
		}
		inserted, err := repo.InsertTransaction(ctx, tx)
		if err != nil || !inserted {
			t.Fatalf("Expected insert, got %v, %v", inserted, err)
		}
		if tx.TransactionID == 0 {
			t.Error("Expected the generated id to be set")
		}

		var raw string
		if err := db.QueryRow(`SELECT amount FROM "transaction" WHERE guid = ?`, tx.GUID).Scan(&raw); err != nil {
			t.Fatalf("Failed to read amount: %v", err)
		}
		if raw != "7.50" {
			t.Errorf("Expected stored amount 7.50, got %s", raw)
		}

		stored, err := repo.FindByGUID(ctx, tx.GUID)
		if err != nil {
			t.Fatalf("Expected transaction, got %v", err)
		}
		if !stored.TransactionDate.Equal(tx.TransactionDate) {
			t.Errorf("Expected date %v, got %v", tx.TransactionDate, stored.TransactionDate)
		}
	})
}

func TestTransactionRepository_ExistsByGUID(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewTransactionRepository(db)
	stored := testutil.NewRecord().Build(t, db)

	exists, err := repo.ExistsByGUID(ctx, stored.GUID)
	if err != nil || !exists {
		t.Errorf("Expected stored guid to exist, got %v, %v", exists, err)
	}

	exists, err = repo.ExistsByGUID(ctx, testutil.MakeID())
	if err != nil || exists {
		t.Errorf("Expected unknown guid not to exist, got %v, %v", exists, err)
	}
}

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("insert is idempotent by name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewAccountRepository(db)

		created, err := repo.InsertAccount(ctx, "foo_brian", model.AccountTypeCredit)
		if err != nil || !created {
			t.Fatalf("Expected first insert to create, got %v, %v", created, err)
		}
		created, err = repo.InsertAccount(ctx, "foo_brian", model.AccountTypeDebit)
		if err != nil || created {
			t.Fatalf("Expected second insert to be ignored, got %v, %v", created, err)
		}
		testutil.AssertRowCount(t, db, "account", 1)

		account, err := repo.FindByAccountNameOwner(ctx, "foo_brian")
		if err != nil {
			t.Fatalf("Expected account, got %v", err)
		}
		if account.AccountType != model.AccountTypeCredit {
			t.Errorf("Expected the first account type to win, got %s", account.AccountType)
		}
		if account.Moniker != model.DefaultMoniker || !account.ActiveStatus {
			t.Errorf("Expected default fields, got %+v", account)
		}
		if !account.Cleared.IsZero() || !account.Outstanding.IsZero() || !account.Future.IsZero() {
			t.Errorf("Expected zero balances, got %+v", account)
		}
	})

	t.Run("missing account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		_, err := repository.NewAccountRepository(db).FindByAccountNameOwner(ctx, "nobody_here")
		if !errors.Is(err, apperrors.ErrAccountNotFound) {
			t.Errorf("Expected ErrAccountNotFound, got %v", err)
		}
	})

	t.Run("lists active accounts by name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.CreateAccount(t, db, "zed_brian", model.AccountTypeDebit)
		testutil.CreateAccount(t, db, "abe_brian", model.AccountTypeCredit)

		accounts, err := repository.NewAccountRepository(db).GetActiveAccounts(ctx)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(accounts) != 2 || accounts[0].AccountNameOwner != "abe_brian" {
			t.Errorf("Expected [abe_brian zed_brian], got %+v", accounts)
		}
	})
}

func TestCategoryRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewCategoryRepository(db)

	created, err := repo.InsertCategory(ctx, "rent")
	if err != nil || !created {
		t.Fatalf("Expected first insert to create, got %v, %v", created, err)
	}
	created, err = repo.InsertCategory(ctx, "rent")
	if err != nil || created {
		t.Fatalf("Expected second insert to be ignored, got %v, %v", created, err)
	}

	category, err := repo.FindByCategory(ctx, "rent")
	if err != nil {
		t.Fatalf("Expected category, got %v", err)
	}
	if !category.ActiveStatus {
		t.Error("Expected active category")
	}

	if _, err := repo.FindByCategory(ctx, "food"); !errors.Is(err, apperrors.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}

	categories, err := repo.GetActiveCategories(ctx)
	if err != nil || len(categories) != 1 {
		t.Errorf("Expected one active category, got %v, %v", categories, err)
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-01-15", "2024-01-15T00:00:00Z"},
		{"2024-01-15T10:30:00Z", "2024-01-15T10:30:00Z"},
		{"2024-01-15 10:30:00", "2024-01-15T10:30:00Z"},
	}
	for _, tc := range tests {
		got, err := repository.ParseTime(tc.in)
		if err != nil {
			t.Errorf("ParseTime(%q) failed: %v", tc.in, err)
			continue
		}
		if got.Format("2006-01-02T15:04:05Z07:00") != tc.want {
			t.Errorf("ParseTime(%q) = %s, want %s", tc.in, got.Format("2006-01-02T15:04:05Z07:00"), tc.want)
		}
	}

	if _, err := repository.ParseTime("15/01/2024"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
