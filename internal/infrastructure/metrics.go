package infrastructure

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	BuildsTotal     *prometheus.CounterVec
	BuildDuration   prometheus.Histogram
	RecordsParsed   prometheus.Counter
	FilesParsed     prometheus.Counter
	DatasetRecords  prometheus.Gauge
	DatasetSymbols  prometheus.Gauge
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

var (
	metricsInstance *Metrics
	metricsOnce     sync.Once
)

// NewMetrics registers the application collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		BuildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "histcli_dataset_builds_total",
			Help: "Number of dataset builds, by result.",
		}, []string{"result"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "histcli_dataset_build_duration_seconds",
			Help:    "Wall time of a full dataset build.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		RecordsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "histcli_records_parsed_total",
			Help: "Total price records parsed across all builds.",
		}),
		FilesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "histcli_files_parsed_total",
			Help: "Total price files parsed across all builds.",
		}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "histcli_dataset_records",
			Help: "Record count of the current dataset snapshot.",
		}),
		DatasetSymbols: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "histcli_dataset_symbols",
			Help: "Symbol count of the current dataset snapshot.",
		}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "histcli_http_requests_total",
			Help: "HTTP requests served, by route and status class.",
		}, []string{"route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "histcli_http_request_duration_seconds",
			Help:    "HTTP request latency, by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	registry.MustRegister(
		m.BuildsTotal,
		m.BuildDuration,
		m.RecordsParsed,
		m.FilesParsed,
		m.DatasetRecords,
		m.DatasetSymbols,
		m.RequestsTotal,
		m.RequestDuration,
	)

	return m
}

// GetMetrics returns the process-wide metrics instance.
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = NewMetrics()
	})
	return metricsInstance
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveBuild records the outcome and duration of one dataset build.
func (m *Metrics) ObserveBuild(result string, duration time.Duration, files, records int) {
	m.BuildsTotal.WithLabelValues(result).Inc()
	m.BuildDuration.Observe(duration.Seconds())
	m.FilesParsed.Add(float64(files))
	m.RecordsParsed.Add(float64(records))
}

// SetDatasetSize records the size of the current dataset snapshot.
func (m *Metrics) SetDatasetSize(records, symbols int) {
	m.DatasetRecords.Set(float64(records))
	m.DatasetSymbols.Set(float64(symbols))
}
