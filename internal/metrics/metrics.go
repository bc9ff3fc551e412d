// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

// Package metrics declares the Prometheus collectors exposed at /metrics.
//
// Collectors register with the default registry through promauto, so
// importing the package is enough to make them visible. Callers use the
// Record* helpers rather than touching the vectors directly.
package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Scrape runs
	ScrapeRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_runs_total",
			Help: "Total number of scrape runs by final status",
		},
		[]string{"status"}, // completed, error, stopped
	)

	ScrapeRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scrape_run_duration_seconds",
			Help:    "Wall time of a scrape run",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
	)

	ScrapeEventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_events_processed_total",
			Help: "Events processed, by result",
		},
		[]string{"result"}, // ok, invalid, not_found, unavailable
	)

	ScrapeOffersFound = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scrape_offers_found_total",
			Help: "Inventory offers produced across all runs",
		},
	)

	ScrapeLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scrape_last_success_timestamp_seconds",
			Help: "Unix time of the last completed run",
		},
	)

	ScrapeRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scrape_running",
			Help: "1 while a scrape run is in progress",
		},
	)

	// Provider
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Requests sent to the seat provider through the proxy",
		},
		[]string{"operation", "status_code"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Latency of provider requests including proxy overhead",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	ProviderRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_retries_total",
			Help: "Provider requests retried after a 429 or transient failure",
		},
		[]string{"operation"},
	)

	// Uploads
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_uploads_total",
			Help: "Inventory file uploads to the store, by result",
		},
		[]string{"result"},
	)

	UploadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "store_upload_duration_seconds",
			Help:    "Duration of the presign and upload sequence",
			Buckets: prometheus.DefBuckets,
		},
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	// Cache
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	// WebSocket
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections_active",
			Help: "Number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total WebSocket messages sent",
		},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Database
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// Events bus
	BusMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bus_messages_published_total",
			Help: "Job lifecycle messages published, by topic",
		},
		[]string{"topic"},
	)

	BusMessagesHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bus_messages_handled_total",
			Help: "Job lifecycle messages consumed, by topic and result",
		},
		[]string{"topic", "result"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordScrapeRun records the outcome of a finished run.
func RecordScrapeRun(status string, duration time.Duration, offers int) {
	ScrapeRunsTotal.WithLabelValues(status).Inc()
	ScrapeRunDuration.Observe(duration.Seconds())
	ScrapeOffersFound.Add(float64(offers))
	if status == "completed" {
		ScrapeLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordEventProcessed counts one event by result.
func RecordEventProcessed(result string) {
	ScrapeEventsProcessed.WithLabelValues(result).Inc()
}

// SetScrapeRunning flips the running gauge.
func SetScrapeRunning(running bool) {
	if running {
		ScrapeRunning.Set(1)
		return
	}
	ScrapeRunning.Set(0)
}

// RecordProviderRequest records one provider round trip. statusCode is 0
// when no response was received.
func RecordProviderRequest(operation string, statusCode int, duration time.Duration) {
	code := "none"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	ProviderRequestsTotal.WithLabelValues(operation, code).Inc()
	ProviderRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func RecordProviderRetry(operation string) {
	ProviderRetries.WithLabelValues(operation).Inc()
}

// RecordUpload records a store upload attempt.
func RecordUpload(success bool, duration time.Duration) {
	result := "failure"
	if success {
		result = "success"
	}
	UploadsTotal.WithLabelValues(result).Inc()
	UploadDuration.Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheLookup counts a hit or miss for the named cache.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordBreakerTransition updates state gauges for a breaker named name.
// States use gobreaker's String() values.
func RecordBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
}

func breakerStateValue(state string) float64 {
	switch strings.ToLower(state) {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// RecordBusPublish counts one message published on topic.
func RecordBusPublish(topic string) {
	BusMessagesPublished.WithLabelValues(topic).Inc()
}

// RecordBusHandled counts one consumed message on topic.
func RecordBusHandled(topic string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	BusMessagesHandled.WithLabelValues(topic, result).Inc()
}
