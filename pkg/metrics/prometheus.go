package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal    *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	lastRefresh     *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macroboard_fetches_total",
				Help: "Total number of dataset fetches by outcome",
			},
			[]string{"dataset", "outcome"},
		),
		cacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macroboard_cache_hits_total",
				Help: "Total number of dataset cache hits",
			},
			[]string{"dataset"},
		),
		upstreamLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "macroboard_upstream_duration_seconds",
				Help:    "Duration of upstream dataset calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"dataset"},
		),
		lastRefresh: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "macroboard_last_refresh_timestamp_seconds",
				Help: "Unix time of the last successful dataset refresh",
			},
			[]string{"dataset"},
		),
	}
}

// RecordFetch records one facade fetch and its outcome (ok, stale, error).
func (r *Recorder) RecordFetch(dataset, outcome string) {
	r.fetchesTotal.WithLabelValues(dataset, outcome).Inc()
}

// RecordCacheHit records a fetch served from cache.
func (r *Recorder) RecordCacheHit(dataset string) {
	r.cacheHits.WithLabelValues(dataset).Inc()
}

// RecordUpstreamLatency records the duration of one upstream call.
func (r *Recorder) RecordUpstreamLatency(dataset string, seconds float64) {
	r.upstreamLatency.WithLabelValues(dataset).Observe(seconds)
}

// RecordRefresh records the time of a successful refresh.
func (r *Recorder) RecordRefresh(dataset string, at time.Time) {
	r.lastRefresh.WithLabelValues(dataset).Set(float64(at.Unix()))
}
