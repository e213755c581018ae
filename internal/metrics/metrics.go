package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors
type Metrics struct {
	registry *prometheus.Registry

	GamesStarted    *prometheus.CounterVec
	GamesSubmitted  *prometheus.CounterVec
	SubmitConflicts prometheus.Counter
	Scores          *prometheus.HistogramVec
	PassageSize     *prometheus.HistogramVec

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	RateLimitedHits prometheus.Counter
}

// New registers every collector on a fresh registry together with the Go and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		GamesStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fallacyfinder_games_started_total",
			Help: "Total number of games started, by difficulty.",
		}, []string{"difficulty"}),
		GamesSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fallacyfinder_games_submitted_total",
			Help: "Total number of games completed, by difficulty.",
		}, []string{"difficulty"}),
		SubmitConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "fallacyfinder_submit_conflicts_total",
			Help: "Total number of submissions rejected because the session was already completed.",
		}),
		Scores: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fallacyfinder_score",
			Help:    "Distribution of final scores, by difficulty.",
			Buckets: prometheus.LinearBuckets(0, 200, 10),
		}, []string{"difficulty"}),
		PassageSize: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fallacyfinder_passage_fallacies",
			Help:    "Number of fallacies embedded per generated passage, by difficulty.",
			Buckets: prometheus.LinearBuckets(1, 1, 10),
		}, []string{"difficulty"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fallacyfinder_http_requests_total",
			Help: "Total number of HTTP requests, by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fallacyfinder_http_request_duration_seconds",
			Help:    "HTTP request latency, by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		RateLimitedHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "fallacyfinder_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter.",
		}),
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer returns the underlying registry
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
