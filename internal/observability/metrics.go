package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codelearn_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codelearn_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// FeatureUsageTotal counts recorded feature uses by feature and principal kind.
	FeatureUsageTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codelearn_feature_usage_total",
		Help: "Total number of recorded feature uses",
	}, []string{"feature", "principal"})

	// FreeTierRejections counts anonymous requests refused by the free-tier gate.
	FreeTierRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codelearn_free_tier_rejections_total",
		Help: "Total number of anonymous requests refused after the free allowance",
	}, []string{"feature"})

	// AuthEvents counts authentication outcomes by event and result.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codelearn_auth_events_total",
		Help: "Authentication events by type and outcome",
	}, []string{"event", "outcome"})

	// LLMRequestDuration records generation backend latency by outcome.
	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codelearn_llm_request_duration_seconds",
		Help:    "Latency of calls to the generation backend",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"outcome"})

	// RateLimitRejections counts requests rejected by the rate limiter.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codelearn_rate_limit_rejections_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"resource"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// PrincipalLabel is the metrics label for anonymous vs authenticated callers.
func PrincipalLabel(anonymous bool) string {
	if anonymous {
		return "anonymous"
	}
	return "user"
}
