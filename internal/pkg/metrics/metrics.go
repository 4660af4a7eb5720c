package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Generation outcomes
const (
	OutcomeSuccess     = "success"
	OutcomeError       = "error"
	OutcomeRejected    = "rejected"
	OutcomeBreakerOpen = "breaker_open"
)

// Cache results
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	// Recommendations by the strategy that produced the returned bundles
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meal_deals_recommendations_total",
			Help: "Total number of recommendation requests by strategy",
		},
		[]string{"strategy"},
	)

	GenerationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meal_deals_generation_requests_total",
			Help: "Total number of generation provider calls by outcome",
		},
		[]string{"outcome"},
	)

	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "meal_deals_generation_duration_seconds",
			Help:    "Duration of generation provider calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
	)

	MenuCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meal_deals_menu_cache_requests_total",
			Help: "Total number of menu cache lookups by result",
		},
		[]string{"result"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meal_deals_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// 0 closed, 1 half-open, 2 open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "meal_deals_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "meal_deals_websocket_connections",
			Help: "Current number of open review stream connections",
		},
	)

	ChatMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meal_deals_chat_messages_total",
			Help: "Total number of chat assistant messages by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordHTTPRequest observes one HTTP request
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordGeneration observes one generation call
func RecordGeneration(outcome string, duration time.Duration) {
	GenerationRequests.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess || outcome == OutcomeError {
		GenerationDuration.Observe(duration.Seconds())
	}
}
