package handlers

import (
	"net/http"

	"github.com/ndewijer/finance-ingest/internal/api/response"
	"github.com/ndewijer/finance-ingest/internal/metrics"
)

// IngestHandler exposes the in-process ingestion counters.
type IngestHandler struct {
	counters *metrics.Memory
}

// NewIngestHandler creates a new IngestHandler reading from counters.
func NewIngestHandler(counters *metrics.Memory) *IngestHandler {
	return &IngestHandler{counters: counters}
}

// StatsResponse lists every counter keyed by name and tags, plus totals per counter name.
type StatsResponse struct {
	Counters map[string]int64 `json:"counters"`
	Totals   map[string]int64 `json:"totals"`
}

// Stats handles GET requests for a snapshot of the ingestion counters.
//
// Endpoint: GET /api/ingest/stats
// Response: 200 OK with StatsResponse
func (h *IngestHandler) Stats(w http.ResponseWriter, _ *http.Request) {
	totals := make(map[string]int64)
	for _, name := range []string{
		metrics.TransactionAttempted,
		metrics.TransactionInserted,
		metrics.TransactionDuplicate,
		metrics.TransactionFailed,
		metrics.FileProcessed,
	} {
		totals[name] = h.counters.Total(name)
	}

	response.RespondJSON(w, http.StatusOK, StatsResponse{
		Counters: h.counters.Snapshot(),
		Totals:   totals,
	})
}
