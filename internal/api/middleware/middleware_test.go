package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/finance-ingest/internal/api/middleware"
	"github.com/ndewijer/finance-ingest/internal/logger"
)

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestValidateUUIDMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		uuid       string
		wantCalled bool
		wantStatus int
	}{
		{"passes through valid UUID", "550e8400-e29b-41d4-a716-446655440000", true, http.StatusOK},
		{"returns 400 for invalid UUID", "invalid-id", false, http.StatusBadRequest},
		{"returns 400 for empty UUID", "", false, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := withURLParam(httptest.NewRequest(http.MethodGet, "/test", nil), "uuid", tc.uuid)
			w := httptest.NewRecorder()
			middleware.ValidateUUIDMiddleware(next).ServeHTTP(w, req)

			if handlerCalled != tc.wantCalled {
				t.Errorf("Expected handler called=%v, got %v", tc.wantCalled, handlerCalled)
			}
			if w.Code != tc.wantStatus {
				t.Errorf("Expected %d, got %d", tc.wantStatus, w.Code)
			}
		})
	}
}

func TestValidateAccountNameMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		account    string
		wantCalled bool
		wantStatus int
	}{
		{"passes through valid name", "chase_brian", true, http.StatusOK},
		{"returns 400 for uppercase name", "Chase_Brian", false, http.StatusBadRequest},
		{"returns 400 for missing underscore", "chase", false, http.StatusBadRequest},
		{"returns 400 for empty name", "", false, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			req := withURLParam(httptest.NewRequest(http.MethodGet, "/test", nil), "accountNameOwner", tc.account)
			w := httptest.NewRecorder()
			middleware.ValidateAccountNameMiddleware(next).ServeHTTP(w, req)

			if handlerCalled != tc.wantCalled {
				t.Errorf("Expected handler called=%v, got %v", tc.wantCalled, handlerCalled)
			}
			if w.Code != tc.wantStatus {
				t.Errorf("Expected %d, got %d", tc.wantStatus, w.Code)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	var ctxLoggerSet bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLoggerSet = logger.FromContext(r.Context()).GetLevel() != zerolog.Disabled
		w.WriteHeader(http.StatusTeapot)
	})

	handler := chimw.RequestID(middleware.Logger(log)(next))
	req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if !ctxLoggerSet {
		t.Error("Expected a request logger in the context")
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected one JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["status"] != float64(http.StatusTeapot) {
		t.Errorf("Expected status 418, got %v", entry["status"])
	}
	if entry["method"] != http.MethodGet {
		t.Errorf("Expected method GET, got %v", entry["method"])
	}
	if entry["path"] != "/api/system/health" {
		t.Errorf("Expected path /api/system/health, got %v", entry["path"])
	}
	if id, _ := entry["request_id"].(string); id == "" {
		t.Error("Expected request_id field")
	}
}

func TestNewCORS(t *testing.T) {
	handler := middleware.NewCORS([]string{"http://localhost:3000"}).Handler(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }),
	)

	t.Run("allows configured origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Expected allowed origin header, got %q", got)
		}
	})

	t.Run("ignores unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Expected no allow-origin header, got %q", got)
		}
	})
}
