// Package metrics provides Prometheus collectors for HTTP traffic and the
// dialogue engine, served from a private registry.
package metrics

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/lewisedginton/storefront_chatbot/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const subsystem = "storefront"

// Metrics bundles the registry with the collectors enabled at construction.
type Metrics struct {
	reg *prometheus.Registry
	log logger.Logger

	TotalHTTPRequestsCounter prometheus.Counter
	HTTPResponsesCounter     *prometheus.CounterVec
	HTTPDurationHistogram    prometheus.Histogram

	IntentsCounter         *prometheus.CounterVec
	CatalogResultHistogram prometheus.Histogram
	CatalogErrorsCounter   prometheus.Counter

	mu     sync.Mutex
	server *http.Server
}

// NewMetrics creates a Metrics instance with the selected collector groups.
func NewMetrics(httpCounters, dialogueMetrics bool, l logger.Logger) *Metrics {
	m := &Metrics{reg: prometheus.NewRegistry(), log: l}

	if httpCounters {
		m.TotalHTTPRequestsCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "total_http_requests",
			Help:      "Total HTTP requests",
		})
		m.HTTPResponsesCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "http_responses_total",
			Help:      "HTTP responses by status code",
		}, []string{"code"})
		m.HTTPDurationHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
			Subsystem: subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.3, 0.5, 1.0, 3.0, 10.0},
		})
		m.reg.MustRegister(m.TotalHTTPRequestsCounter, m.HTTPResponsesCounter, m.HTTPDurationHistogram)
	}

	if dialogueMetrics {
		m.IntentsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "dialogue_intents_total",
			Help:      "Messages handled by classified intent",
		}, []string{"intent"})
		m.CatalogResultHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
			Subsystem: subsystem,
			Name:      "dialogue_catalog_results",
			Help:      "Number of catalog matches per dialogue search",
			Buckets:   []float64{0, 1, 2, 4, 6, 10, 20},
		})
		m.CatalogErrorsCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "dialogue_catalog_errors_total",
			Help:      "Catalog failures absorbed by the dialogue engine",
		})
		m.reg.MustRegister(m.IntentsCounter, m.CatalogResultHistogram, m.CatalogErrorsCounter)
	}

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Listen starts the metrics HTTP server on port. Serve errors other than a
// clean shutdown are delivered on the returned channel, which closes when the
// server stops.
func (m *Metrics) Listen(port int) <-chan error {
	m.log.Info("Starting metrics listener", logger.IntField("port", port))
	mux := http.NewServeMux()
	mux.Handle("/", http.NotFoundHandler())
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	m.mu.Lock()
	m.server = srv
	m.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("metrics listener: %w", err)
		}
	}()
	return errChan
}

// Shutdown stops the listener started by Listen, if any.
func (m *Metrics) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	srv := m.server
	m.mu.Unlock()
	if srv == nil {
		return nil
	}
	m.log.Info("Stopping metrics listener")
	return srv.Shutdown(ctx)
}

// AddCustomMetric registers a custom Prometheus collector.
func (m *Metrics) AddCustomMetric(c prometheus.Collector) {
	m.reg.MustRegister(c)
}

// IncrementHTTPResponseCounter increments the counter for the given HTTP status code.
func (m *Metrics) IncrementHTTPResponseCounter(code int) {
	if m.HTTPResponsesCounter == nil {
		return
	}
	m.HTTPResponsesCounter.WithLabelValues(strconv.Itoa(code)).Inc()
}

// RecordIntent counts a classified message.
func (m *Metrics) RecordIntent(intent string) {
	if m.IntentsCounter == nil {
		return
	}
	m.IntentsCounter.WithLabelValues(intent).Inc()
}

// ObserveCatalogResults records how many products a dialogue search matched.
func (m *Metrics) ObserveCatalogResults(n int) {
	if m.CatalogResultHistogram == nil {
		return
	}
	m.CatalogResultHistogram.Observe(float64(n))
}

// IncrementCatalogErrors counts a catalog failure.
func (m *Metrics) IncrementCatalogErrors() {
	if m.CatalogErrorsCounter == nil {
		return
	}
	m.CatalogErrorsCounter.Inc()
}

// HTTPMiddleware returns a chi-compatible middleware that tracks HTTP metrics.
// It is a pass-through when HTTP collectors are disabled.
func (m *Metrics) HTTPMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m.TotalHTTPRequestsCounter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.TotalHTTPRequestsCounter.Inc()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			m.HTTPDurationHistogram.Observe(time.Since(start).Seconds())
			m.IncrementHTTPResponseCounter(rw.statusCode)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Hijack keeps websocket upgrades working behind the middleware.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.statusCode = http.StatusSwitchingProtocols
	return h.Hijack()
}
