package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportMetrics_CatalogRequests(t *testing.T) {
	m := NewImportMetrics(prometheus.NewRegistry())

	m.ObserveCatalogRequest("card", "200", 10*time.Millisecond)
	m.ObserveCatalogRequest("card", "429", 5*time.Millisecond)
	m.ObserveCatalogRequest("set", "error", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogRequests.WithLabelValues("card", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogRequests.WithLabelValues("card", "429")))

	stats := m.GetStats()
	assert.Equal(t, uint64(3), stats.CatalogRequests)
	assert.Equal(t, uint64(2), stats.CatalogErrors)
	assert.InDelta(t, 33.33, stats.CatalogSuccessRate, 0.01)
	assert.Equal(t, 3, stats.CatalogLatency.Count)
	assert.InDelta(t, 10.0, stats.CatalogLatency.Max, 0.001)
}

func TestImportMetrics_Imports(t *testing.T) {
	m := NewImportMetrics(prometheus.NewRegistry())

	m.ObserveImport(ResultDone, 2*time.Second)
	m.ObserveImport(ResultAborted, time.Second)
	m.AddCards(CardsImported, 5)
	m.AddCards(CardsSkipped, 2)
	m.AddCards(CardsFailed, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.imports.WithLabelValues(ResultDone)))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.importCards.WithLabelValues(CardsImported)))

	stats := m.GetStats()
	assert.Equal(t, uint64(1), stats.ImportsDone)
	assert.Equal(t, uint64(1), stats.ImportsAborted)
	assert.Equal(t, uint64(5), stats.CardsImported)
	assert.Equal(t, uint64(2), stats.CardsSkipped)
	assert.Zero(t, stats.CardsFailed)
}

func TestImportMetrics_ConcurrentStats(t *testing.T) {
	m := NewImportMetrics(prometheus.NewRegistry())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m.ObserveCatalogRequest("card", "200", time.Millisecond)
				m.AddCards(CardsImported, 1)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = m.GetStats()
			}
		}()
	}
	wg.Wait()

	stats := m.GetStats()
	assert.Equal(t, uint64(200), stats.CatalogRequests)
	assert.Equal(t, uint64(200), stats.CardsImported)
	assert.NotEmpty(t, stats.Uptime)
}

func TestImportMetrics_Registration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewImportMetrics(reg)
	m.ObserveImport(ResultDone, time.Second)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["mtginv_imports_total"])
	assert.True(t, names["mtginv_import_duration_seconds"])
}

func TestHistogram_Percentiles(t *testing.T) {
	h := NewHistogram(100)
	for i := 1; i <= 5; i++ {
		h.Record(time.Duration(i) * time.Millisecond)
	}

	assert.Equal(t, 5, h.Count())
	assert.InDelta(t, 3.0, h.Mean(), 0.001)
	assert.InDelta(t, 3.0, h.Percentile(50), 0.001)
	assert.InDelta(t, 1.0, h.Min(), 0.001)
	assert.InDelta(t, 5.0, h.Max(), 0.001)
	assert.InDelta(t, 4.5, h.Percentile(87.5), 0.001)

	empty := NewHistogram(10)
	assert.Zero(t, empty.Count())
	assert.Zero(t, empty.Percentile(99))
}

func TestHistogram_Trim(t *testing.T) {
	h := NewHistogram(10)
	for i := 0; i < 11; i++ {
		h.Record(time.Duration(i) * time.Millisecond)
	}

	// 11 samples exceed 10; the oldest 2 are dropped.
	assert.Equal(t, 9, h.Count())
	assert.InDelta(t, 2.0, h.Min(), 0.001)
}
