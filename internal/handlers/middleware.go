package handlers

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"fallacyfinder/internal/metrics"
	"fallacyfinder/internal/security"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
	limiter *security.RateLimiter
	ips     *security.IPResolver
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(logger *zap.Logger, m *metrics.Metrics, limiter *security.RateLimiter, ips *security.IPResolver) *Middleware {
	return &Middleware{
		logger:  logger.Named("http"),
		metrics: m,
		limiter: limiter,
		ips:     ips,
	}
}

// statusRecorder captures the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging logs every request and records its latency
func (m *Middleware) Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(elapsed.Seconds())

		m.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", elapsed),
			zap.String("client_ip", m.ips.ClientIP(r)),
		)
	})
}

// RateLimit rejects clients that exceed the configured request rate
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := m.ips.ClientIP(r)
		if !m.limiter.Allow(ip) {
			m.metrics.RateLimitedHits.Inc()
			m.logger.Warn("rate limit exceeded", zap.String("client_ip", ip), zap.String("path", r.URL.Path))
			respondWithError(w, m.logger, http.StatusTooManyRequests, ErrRateLimited, nil)
			return
		}
		next(w, r)
	}
}

// RequireReady answers 503 until startup has finished
func (m *Middleware) RequireReady(startup *Startup, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !startup.IsReady() {
			respondWithError(w, m.logger, http.StatusServiceUnavailable, ErrNotReady, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
