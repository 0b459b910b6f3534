package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Edge request counters, labeled by the matched route pattern
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests handled by the edge",
		},
		[]string{"route", "action", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests handled by the edge",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "action"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_errors_total",
			Help: "Total number of failed upstream round trips",
		},
		[]string{"reason"},
	)

	// Content cache counters, labeled by the matched route pattern
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Total number of content cache requests",
		},
		[]string{"route"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of content cache hits",
		},
		[]string{"route"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of content cache misses",
		},
		[]string{"route"},
	)

	// L1/L2 specific hits (separate counters for simplicity)
	L1CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "l1_cache_hits_total",
			Help: "Total number of L1 cache hits",
		},
		[]string{"route"},
	)

	L2CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "l2_cache_hits_total",
			Help: "Total number of L2 cache hits",
		},
		[]string{"route"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"level", "operation"},
	)

	// Get operation latency only
	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_operation_duration_seconds",
			Help:    "Duration of cache get operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "level"},
	)

	// L1 capacity metrics only (if L1 is in-memory)
	CacheCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_capacity_bytes",
			Help: "L1 cache capacity in bytes",
		},
		[]string{"level"},
	)

	CacheUsed = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_used_bytes",
			Help: "L1 cache used space in bytes",
		},
		[]string{"level"},
	)
)

// RecordRequest records a completed edge request
func RecordRequest(route, action string, status int) {
	HTTPRequests.WithLabelValues(route, action, strconv.Itoa(status)).Inc()
}

// TimeRequest returns a timer function for measuring edge request duration
func TimeRequest(route, action string) func() {
	timer := prometheus.NewTimer(HTTPRequestDuration.WithLabelValues(route, action))
	return func() {
		timer.ObserveDuration()
	}
}

// TrackInFlight marks a request as in flight and returns a done function
func TrackInFlight() func() {
	HTTPRequestsInFlight.Inc()
	return func() {
		HTTPRequestsInFlight.Dec()
	}
}

// RecordUpstreamError records a failed upstream round trip
func RecordUpstreamError(reason string) {
	UpstreamErrors.WithLabelValues(reason).Inc()
}

// RecordCacheRequest records a content cache request
func RecordCacheRequest(route string) {
	CacheRequests.WithLabelValues(route).Inc()
}

// RecordCacheHit records a content cache hit
func RecordCacheHit(route string, level string) {
	CacheHits.WithLabelValues(route).Inc()

	switch level {
	case "l1":
		L1CacheHits.WithLabelValues(route).Inc()
	case "l2":
		L2CacheHits.WithLabelValues(route).Inc()
	}
}

// RecordCacheMiss records a content cache miss
func RecordCacheMiss(route string) {
	CacheMisses.WithLabelValues(route).Inc()
}

// RecordCacheError records a cache operation error
func RecordCacheError(level, operation string) {
	CacheErrors.WithLabelValues(level, operation).Inc()
}

// UpdateL1CacheCapacity updates L1 cache capacity metrics only
func UpdateL1CacheCapacity(capacity, used int64) {
	CacheCapacity.WithLabelValues("l1").Set(float64(capacity))
	CacheUsed.WithLabelValues("l1").Set(float64(used))
}

// TimeCacheGetOperation returns a timer function for measuring cache get operation duration
func TimeCacheGetOperation(level string) func() {
	timer := prometheus.NewTimer(CacheOperationDuration.WithLabelValues("get", level))
	return func() {
		timer.ObserveDuration()
	}
}
