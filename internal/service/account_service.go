package service

import (
	"context"

	"github.com/ndewijer/finance-ingest/internal/model"
	"github.com/ndewijer/finance-ingest/internal/repository"
)

// AccountService exposes the account and category lookaside stores for reading.
type AccountService struct {
	accountRepo  *repository.AccountRepository
	categoryRepo *repository.CategoryRepository
}

// NewAccountService creates a new AccountService with the provided repository dependencies.
func NewAccountService(
	accountRepo *repository.AccountRepository,
	categoryRepo *repository.CategoryRepository,
) *AccountService {
	return &AccountService{
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
	}
}

// GetActiveAccounts returns all active accounts ordered by name.
func (s *AccountService) GetActiveAccounts(ctx context.Context) ([]model.Account, error) {
	return s.accountRepo.GetActiveAccounts(ctx)
}

// GetAccount returns one account by its name.
// Returns apperrors.ErrAccountNotFound if the account does not exist.
func (s *AccountService) GetAccount(ctx context.Context, accountNameOwner string) (*model.Account, error) {
	return s.accountRepo.FindByAccountNameOwner(ctx, accountNameOwner)
}

// GetActiveCategories returns all active categories ordered by name.
func (s *AccountService) GetActiveCategories(ctx context.Context) ([]model.Category, error) {
	return s.categoryRepo.GetActiveCategories(ctx)
}
