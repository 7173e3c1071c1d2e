// Package metrics expõe as métricas Prometheus do serviço.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa os coletores. Todos os métodos aceitam receptor nil, assim os
// serviços podem rodar sem métricas em testes e na CLI.
type Metrics struct {
	registry *prometheus.Registry

	RefreshTotal      *prometheus.CounterVec
	RefreshDuration   *prometheus.HistogramVec
	SnapshotRows      prometheus.Gauge
	SnapshotSkipped   prometheus.Gauge
	SnapshotDuplicate prometheus.Gauge
	SnapshotFetchedAt prometheus.Gauge
	MemoLookups       *prometheus.CounterVec

	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
}

// NewMetrics cria um registry próprio e registra todos os coletores nele.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		RefreshTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dataset_refresh_total",
				Help:      "Total number of dataset refreshes",
			},
			[]string{"source", "status"},
		),
		RefreshDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dataset_refresh_duration_seconds",
				Help:      "Dataset refresh latency in seconds",
				Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"source"},
		),
		SnapshotRows: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "snapshot_rows",
				Help:      "Number of ad events in the current snapshot",
			},
		),
		SnapshotSkipped: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "snapshot_skipped_rows",
				Help:      "Rows dropped for missing ad or account id in the current snapshot",
			},
		),
		SnapshotDuplicate: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "snapshot_duplicate_ad_ids",
				Help:      "Repeated ad ids ignored in the current snapshot",
			},
		),
		SnapshotFetchedAt: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "snapshot_fetched_timestamp_seconds",
				Help:      "Unix time the current snapshot was read from the warehouse",
			},
		),
		MemoLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "summary_memo_lookups_total",
				Help:      "Summary memo lookups by result",
			},
			[]string{"result"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// Handler devolve o handler HTTP do endpoint /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordRefresh registra uma recarga do snapshot.
func (m *Metrics) RecordRefresh(source, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RefreshTotal.WithLabelValues(source, status).Inc()
	m.RefreshDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// SetSnapshot publica o tamanho e a idade do snapshot corrente.
func (m *Metrics) SetSnapshot(rows, skipped, duplicates int, fetchedAt time.Time) {
	if m == nil {
		return
	}
	m.SnapshotRows.Set(float64(rows))
	m.SnapshotSkipped.Set(float64(skipped))
	m.SnapshotDuplicate.Set(float64(duplicates))
	m.SnapshotFetchedAt.Set(float64(fetchedAt.Unix()))
}

func (m *Metrics) RecordMemoLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.MemoLookups.WithLabelValues(result).Inc()
}

// RecordHTTPRequest registra uma requisição HTTP. path deve ser o padrão da rota,
// não a URL crua, para manter a cardinalidade baixa.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPLatency.WithLabelValues(method, path).Observe(duration.Seconds())
}
