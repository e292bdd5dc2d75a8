package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ShopMetrics records cache traffic and payment settlement outcomes.
type ShopMetrics struct {
	cacheHits    *prometheus.CounterVec
	cacheMisses  *prometheus.CounterVec
	settlements  *prometheus.CounterVec
	settleTiming *prometheus.HistogramVec
	checkouts    prometheus.Counter
}

// NewShopMetrics registers the storefront metrics on the provided registerer.
func NewShopMetrics(reg prometheus.Registerer) *ShopMetrics {
	if reg == nil {
		return &ShopMetrics{}
	}
	cacheHits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_hits",
		Help: "Cache reads served from Redis.",
	}, []string{"view"})
	cacheMisses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_misses",
		Help: "Cache reads that fell through to the database.",
	}, []string{"view"})
	settlements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_settlements",
		Help: "Completed payment settlements by outcome.",
	}, []string{"outcome"})
	settleTiming := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payment_settle_duration_seconds",
		Help:    "Duration of payment settlement in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	checkouts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_total",
		Help: "Orders created through checkout.",
	})
	reg.MustRegister(cacheHits, cacheMisses, settlements, settleTiming, checkouts)
	return &ShopMetrics{
		cacheHits:    cacheHits,
		cacheMisses:  cacheMisses,
		settlements:  settlements,
		settleTiming: settleTiming,
		checkouts:    checkouts,
	}
}

// IncCacheHit increments the hit counter for the named cached view.
func (s *ShopMetrics) IncCacheHit(view string) {
	if s == nil || s.cacheHits == nil {
		return
	}
	s.cacheHits.WithLabelValues(normalizeLabel(view)).Inc()
}

// IncCacheMiss increments the miss counter for the named cached view.
func (s *ShopMetrics) IncCacheMiss(view string) {
	if s == nil || s.cacheMisses == nil {
		return
	}
	s.cacheMisses.WithLabelValues(normalizeLabel(view)).Inc()
}

// ObserveSettlement records one settlement with its outcome and duration.
func (s *ShopMetrics) ObserveSettlement(outcome string, duration time.Duration) {
	if s == nil || s.settlements == nil {
		return
	}
	label := normalizeLabel(outcome)
	s.settlements.WithLabelValues(label).Inc()
	s.settleTiming.WithLabelValues(label).Observe(duration.Seconds())
}

// IncCheckout increments the created-order counter.
func (s *ShopMetrics) IncCheckout() {
	if s == nil || s.checkouts == nil {
		return
	}
	s.checkouts.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
