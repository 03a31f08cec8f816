package handlers

import (
	"net/http"

	"github.com/ramonehamilton/mtg-inventory/internal/api/response"
	"github.com/ramonehamilton/mtg-inventory/internal/metrics"
)

// StatsProvider exposes in-process import statistics.
type StatsProvider interface {
	GetStats() *metrics.ImportStats
}

// StatsHandler serves import statistics.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// GetImportStats returns catalog and import counters with latency percentiles.
func (h *StatsHandler) GetImportStats(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, h.provider.GetStats())
}
