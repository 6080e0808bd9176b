// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/finance-ingest/internal/api/response"
	"github.com/ndewijer/finance-ingest/internal/validation"
)

// ValidateUUIDMiddleware validates that the uuid URL parameter is present and is a valid UUID.
// Returns 400 Bad Request if the UUID is missing or invalid.
//
// Example usage in router:
//
//	r.With(middleware.ValidateUUIDMiddleware).Get("/transaction/{uuid}", handler.GetTransaction)
func ValidateUUIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		UUID := chi.URLParam(r, "uuid")

		if UUID == "" {
			response.RespondError(w, http.StatusBadRequest, "valid UUID is required", "")
			return
		}

		if err := validation.ValidateUUID(UUID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid UUID format", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ValidateAccountNameMiddleware validates the accountNameOwner URL parameter
// against the same rules applied to ingested records.
func ValidateAccountNameMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "accountNameOwner")

		if name == "" {
			response.RespondError(w, http.StatusBadRequest, "account name is required", "")
			return
		}

		if err := validation.ValidateAccountNameOwner(name); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid account name", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
