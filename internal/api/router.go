package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/finance-ingest/internal/api/handlers"
	custommiddleware "github.com/ndewijer/finance-ingest/internal/api/middleware"
	"github.com/ndewijer/finance-ingest/internal/config"
	"github.com/ndewijer/finance-ingest/internal/metrics"
	"github.com/ndewijer/finance-ingest/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	transactionService *service.TransactionService,
	accountService *service.AccountService,
	counters *metrics.Memory,
	cfg *config.Config,
	log zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/transaction", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(transactionService)
			r.With(custommiddleware.ValidateUUIDMiddleware).
				Get("/select/{uuid}", transactionHandler.GetTransaction)

			r.Route("/account", func(r chi.Router) {
				r.With(custommiddleware.ValidateAccountNameMiddleware).
					Get("/select/{accountNameOwner}", transactionHandler.TransactionsByAccount)
				r.With(custommiddleware.ValidateAccountNameMiddleware).
					Get("/totals/{accountNameOwner}", transactionHandler.AccountTotals)
			})
		})

		accountHandler := handlers.NewAccountHandler(accountService)
		r.Get("/account/active", accountHandler.ActiveAccounts)
		r.Get("/category/active", accountHandler.ActiveCategories)

		ingestHandler := handlers.NewIngestHandler(counters)
		r.Get("/ingest/stats", ingestHandler.Stats)
	})

	return r
}
