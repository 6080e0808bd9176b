package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/finance-ingest/internal/api/request"
	"github.com/ndewijer/finance-ingest/internal/api/response"
	"github.com/ndewijer/finance-ingest/internal/apperrors"
	"github.com/ndewijer/finance-ingest/internal/logger"
	"github.com/ndewijer/finance-ingest/internal/service"
)

// TransactionHandler handles HTTP requests for transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// lookups to the TransactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// GetTransaction handles GET requests to retrieve a single transaction by guid.
//
// Endpoint: GET /api/transaction/select/{uuid}
// Response: 200 OK with model.Transaction
// Error: 400 Bad Request if the guid is invalid (validated by middleware)
// Error: 404 Not Found if no transaction has the guid
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	guid := chi.URLParam(r, "uuid")

	transaction, err := h.transactionService.GetTransaction(r.Context(), guid)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), "")
			return
		}
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Str("guid", guid).Msg("transaction lookup failed")
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransaction.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// TransactionsByAccount handles GET requests to list the active transactions of
// one account, newest first. The optional state query parameter narrows the
// list to one transaction state.
//
// Endpoint: GET /api/transaction/account/select/{accountNameOwner}?state=cleared
// Response: 200 OK with array of model.Transaction
// Error: 400 Bad Request if the account name or state is invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) TransactionsByAccount(w http.ResponseWriter, r *http.Request) {
	accountNameOwner := chi.URLParam(r, "accountNameOwner")

	state, err := request.ParseTransactionState(r.URL.Query().Get("state"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	transactions, err := h.transactionService.GetTransactionsByAccount(r.Context(), accountNameOwner, state)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// AccountTotals handles GET requests to sum the active transactions of one
// account per transaction state.
//
// Endpoint: GET /api/transaction/account/totals/{accountNameOwner}
// Response: 200 OK with model.AccountTotals
// Error: 400 Bad Request if the account name is invalid (validated by middleware)
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) AccountTotals(w http.ResponseWriter, r *http.Request) {
	accountNameOwner := chi.URLParam(r, "accountNameOwner")

	totals, err := h.transactionService.GetAccountTotals(r.Context(), accountNameOwner)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTotals.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, totals)
}
