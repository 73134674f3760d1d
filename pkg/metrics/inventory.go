package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// InventoryMetrics records counters for stock movements and catalog cache behavior.
type InventoryMetrics struct {
	adjustments        *prometheus.CounterVec
	adjustmentDuration *prometheus.HistogramVec
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
}

// NewInventoryMetrics registers the inventory metrics on the provided registerer.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	adjustments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_adjustments_total",
		Help: "Stock adjustment attempts by direction and outcome.",
	}, []string{"type", "outcome"})
	adjustmentDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stock_adjustment_duration_seconds",
		Help:    "Duration of stock adjustment transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Product list reads served from the cache.",
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "Product list reads that fell through to the database.",
	})
	reg.MustRegister(adjustments, adjustmentDuration, cacheHits, cacheMisses)
	return &InventoryMetrics{
		adjustments:        adjustments,
		adjustmentDuration: adjustmentDuration,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
	}
}

// IncAdjustment increments the adjustment counter for the given direction and outcome.
func (m *InventoryMetrics) IncAdjustment(adjustmentType, outcome string) {
	if m == nil || m.adjustments == nil {
		return
	}
	m.adjustments.WithLabelValues(normalizeLabel(adjustmentType), normalizeLabel(outcome)).Inc()
}

// ObserveAdjustmentDuration records how long an adjustment transaction took.
func (m *InventoryMetrics) ObserveAdjustmentDuration(adjustmentType string, duration time.Duration) {
	if m == nil || m.adjustmentDuration == nil {
		return
	}
	m.adjustmentDuration.WithLabelValues(normalizeLabel(adjustmentType)).Observe(duration.Seconds())
}

// IncCacheHit increments the catalog cache hit counter.
func (m *InventoryMetrics) IncCacheHit() {
	if m == nil || m.cacheHits == nil {
		return
	}
	m.cacheHits.Inc()
}

// IncCacheMiss increments the catalog cache miss counter.
func (m *InventoryMetrics) IncCacheMiss() {
	if m == nil || m.cacheMisses == nil {
		return
	}
	m.cacheMisses.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
