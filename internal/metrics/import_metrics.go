// Package metrics records catalog and import activity, both as Prometheus
// collectors and as an in-process snapshot served by the API.
package metrics

import (
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mtginv"

// Import outcomes used as label values.
const (
	ResultDone    = "done"
	ResultAborted = "aborted"

	CardsImported = "imported"
	CardsSkipped  = "skipped"
	CardsFailed   = "failed"
)

// ImportMetrics tracks catalog requests and edition imports.
type ImportMetrics struct {
	catalogRequests *prometheus.CounterVec
	catalogLatency  *prometheus.HistogramVec
	imports         *prometheus.CounterVec
	importCards     *prometheus.CounterVec
	importDuration  prometheus.Histogram

	// Latency histograms (in milliseconds)
	CatalogLatency *Histogram
	ImportLatency  *Histogram

	// Counters
	CatalogRequests atomic.Uint64
	CatalogErrors   atomic.Uint64
	ImportsDone     atomic.Uint64
	ImportsAborted  atomic.Uint64
	CardsImported   atomic.Uint64
	CardsSkipped    atomic.Uint64
	CardsFailed     atomic.Uint64

	startTime time.Time
}

// NewImportMetrics creates the collectors and registers them with reg.
// Pass prometheus.NewRegistry() in tests to avoid duplicate registration.
func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	factory := promauto.With(reg)

	return &ImportMetrics{
		catalogRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_requests_total",
			Help:      "Catalog HTTP attempts by endpoint and status code.",
		}, []string{"endpoint", "status"}),
		catalogLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_request_duration_seconds",
			Help:      "Catalog HTTP attempt latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		imports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Edition imports by final state.",
		}, []string{"result"}),
		importCards: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_cards_total",
			Help:      "Cards processed by edition imports, by outcome.",
		}, []string{"outcome"}),
		importDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_seconds",
			Help:      "Wall time of a whole edition import.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
		CatalogLatency: NewHistogram(10000),
		ImportLatency:  NewHistogram(1000),
		startTime:      time.Now(),
	}
}

// ObserveCatalogRequest records one catalog HTTP attempt. Status is the
// HTTP status code, or "error" when no response was received.
func (m *ImportMetrics) ObserveCatalogRequest(endpoint, status string, elapsed time.Duration) {
	m.catalogRequests.WithLabelValues(endpoint, status).Inc()
	m.catalogLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())

	m.CatalogLatency.Record(elapsed)
	m.CatalogRequests.Add(1)
	if code, err := strconv.Atoi(status); err != nil || code >= 400 {
		m.CatalogErrors.Add(1)
	}
}

// ObserveImport records a finished edition import.
func (m *ImportMetrics) ObserveImport(result string, elapsed time.Duration) {
	m.imports.WithLabelValues(result).Inc()
	m.importDuration.Observe(elapsed.Seconds())

	m.ImportLatency.Record(elapsed)
	switch result {
	case ResultDone:
		m.ImportsDone.Add(1)
	case ResultAborted:
		m.ImportsAborted.Add(1)
	}
}

// AddCards records n cards with the given outcome.
func (m *ImportMetrics) AddCards(outcome string, n int) {
	if n <= 0 {
		return
	}
	m.importCards.WithLabelValues(outcome).Add(float64(n))

	switch outcome {
	case CardsImported:
		m.CardsImported.Add(uint64(n))
	case CardsSkipped:
		m.CardsSkipped.Add(uint64(n))
	case CardsFailed:
		m.CardsFailed.Add(uint64(n))
	}
}

// ImportStats contains the computed statistics from metrics.
type ImportStats struct {
	CatalogLatency LatencyStats `json:"catalog_latency"`
	ImportLatency  LatencyStats `json:"import_latency"`

	CatalogRequests    uint64  `json:"catalog_requests"`
	CatalogErrors      uint64  `json:"catalog_errors"`
	CatalogSuccessRate float64 `json:"catalog_success_rate"` // percentage
	ImportsDone        uint64  `json:"imports_done"`
	ImportsAborted     uint64  `json:"imports_aborted"`
	CardsImported      uint64  `json:"cards_imported"`
	CardsSkipped       uint64  `json:"cards_skipped"`
	CardsFailed        uint64  `json:"cards_failed"`

	Uptime string `json:"uptime"`
}

// LatencyStats contains statistics for a latency histogram.
type LatencyStats struct {
	Mean  float64 `json:"mean"` // milliseconds
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// GetStats returns a snapshot of the current statistics.
func (m *ImportMetrics) GetStats() *ImportStats {
	requests := m.CatalogRequests.Load()
	errors := m.CatalogErrors.Load()

	successRate := 0.0
	if requests > 0 {
		successRate = (float64(requests-errors) / float64(requests)) * 100
	}

	return &ImportStats{
		CatalogLatency:     latencyStats(m.CatalogLatency),
		ImportLatency:      latencyStats(m.ImportLatency),
		CatalogRequests:    requests,
		CatalogErrors:      errors,
		CatalogSuccessRate: successRate,
		ImportsDone:        m.ImportsDone.Load(),
		ImportsAborted:     m.ImportsAborted.Load(),
		CardsImported:      m.CardsImported.Load(),
		CardsSkipped:       m.CardsSkipped.Load(),
		CardsFailed:        m.CardsFailed.Load(),
		Uptime:             time.Since(m.startTime).Round(time.Second).String(),
	}
}

func latencyStats(h *Histogram) LatencyStats {
	return LatencyStats{
		Mean:  h.Mean(),
		P50:   h.Percentile(50),
		P95:   h.Percentile(95),
		P99:   h.Percentile(99),
		Min:   h.Min(),
		Max:   h.Max(),
		Count: h.Count(),
	}
}
