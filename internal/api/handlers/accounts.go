package handlers

import (
	"net/http"

	"github.com/ndewijer/finance-ingest/internal/api/response"
	"github.com/ndewijer/finance-ingest/internal/apperrors"
	"github.com/ndewijer/finance-ingest/internal/service"
)

// AccountHandler handles HTTP requests for the account and category lookaside stores.
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler with the provided service dependency.
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// ActiveAccounts handles GET requests to list active accounts, including the
// ones created on first reference by ingestion.
//
// Endpoint: GET /api/account/active
// Response: 200 OK with array of model.Account
// Error: 500 Internal Server Error if retrieval fails
func (h *AccountHandler) ActiveAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.GetActiveAccounts(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAccounts.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, accounts)
}

// ActiveCategories handles GET requests to list active categories.
//
// Endpoint: GET /api/category/active
// Response: 200 OK with array of model.Category
// Error: 500 Internal Server Error if retrieval fails
func (h *AccountHandler) ActiveCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.accountService.GetActiveCategories(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveCategories.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, categories)
}
