// Package observability holds the process-wide prometheus collectors and the
// OpenTelemetry tracer setup.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/claude/trainplan/internal/models"
)

const namespace = "trainplan"

var (
	generationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "generation",
		Name:      "programs_total",
		Help:      "Programs generated, by outcome (success, fallback, error).",
	}, []string{"status"})

	generationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "generation",
		Name:      "duration_seconds",
		Help:      "Wall time of one program generation.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	warningsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "generation",
		Name:      "warnings_total",
		Help:      "Warnings attached to generated programs, by kind.",
	}, []string{"kind"})

	sessionFillRate = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "generation",
		Name:      "session_fill_percent",
		Help:      "Per-session fill rate of generated programs.",
		Buckets:   []float64{25, 50, 75, 90, 100},
	})

	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Program cache lookups, by result (hit, miss, error).",
	}, []string{"result"})

	eventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Domain events handed to the broker, by result (ok, error).",
	}, []string{"result"})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests, by method, route pattern and status code.",
	}, []string{"method", "route", "code"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(
		generationsTotal,
		generationDuration,
		warningsTotal,
		sessionFillRate,
		cacheLookups,
		eventsPublished,
		httpRequests,
		httpDuration,
	)
}

// RecordGeneration observes one finished generation.
func RecordGeneration(status string, elapsed time.Duration, warnings []models.Warning, fillRates []float64) {
	generationsTotal.WithLabelValues(status).Inc()
	generationDuration.Observe(elapsed.Seconds())
	for _, w := range warnings {
		warningsTotal.WithLabelValues(string(w.Kind)).Inc()
	}
	for _, r := range fillRates {
		sessionFillRate.Observe(r)
	}
}

// RecordCacheLookup counts a cache hit, miss or error.
func RecordCacheLookup(result string) {
	cacheLookups.WithLabelValues(result).Inc()
}

// RecordEventPublished counts a publish attempt.
func RecordEventPublished(err error) {
	if err != nil {
		eventsPublished.WithLabelValues("error").Inc()
		return
	}
	eventsPublished.WithLabelValues("ok").Inc()
}

// RecordHTTPRequest observes one served request. route is the chi pattern,
// not the raw path.
func RecordHTTPRequest(method, route string, code int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
