// Package observability provides Prometheus metrics for the collector.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"

	CycleWritten      = "written"
	CycleSkipped      = "skipped"
	CyclePersistError = "persist_error"
)

// Metrics holds the collector's instruments.
type Metrics struct {
	ProviderFetches  *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec
	Cycles           *prometheus.CounterVec
	SentimentLabels  *prometheus.CounterVec
	WorkersActive    prometheus.Gauge
	LastWriteSeconds *prometheus.GaugeVec

	registry *prometheus.Registry
}

// NewMetrics registers every instrument on a fresh registry so tests and
// multiple supervisors never collide on the global one.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "tokenpulse"
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		ProviderFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_fetch_total",
			Help:      "Provider calls by outcome",
		}, []string{"provider", "outcome"}),
		ProviderLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_fetch_seconds",
			Help:      "Provider call latency",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		}, []string{"provider"}),
		Cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Worker cycles by outcome",
		}, []string{"outcome"}),
		SentimentLabels: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentiment_fragments_total",
			Help:      "Newly seen social fragments by source and label",
		}, []string{"source", "label"}),
		WorkersActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers_active",
			Help:      "Workers that have not reached Stopped",
		}),
		LastWriteSeconds: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_write_timestamp_seconds",
			Help:      "Unix time of the last persisted row per token",
		}, []string{"token"}),
		registry: reg,
	}
}

// ObserveFetch records one provider call.
func (m *Metrics) ObserveFetch(provider string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeUnavailable
	}
	m.ProviderFetches.WithLabelValues(provider, outcome).Inc()
	m.ProviderLatency.WithLabelValues(provider).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveCycle(outcome string) {
	if m == nil {
		return
	}
	m.Cycles.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveSentiment(source string, positive, negative, neutral int) {
	if m == nil {
		return
	}
	m.SentimentLabels.WithLabelValues(source, "positive").Add(float64(positive))
	m.SentimentLabels.WithLabelValues(source, "negative").Add(float64(negative))
	m.SentimentLabels.WithLabelValues(source, "neutral").Add(float64(neutral))
}

func (m *Metrics) ObserveWrite(token string, at time.Time) {
	if m == nil {
		return
	}
	m.LastWriteSeconds.WithLabelValues(token).Set(float64(at.Unix()))
}

func (m *Metrics) WorkersActiveInc() {
	if m == nil {
		return
	}
	m.WorkersActive.Inc()
}

func (m *Metrics) WorkersActiveDec() {
	if m == nil {
		return
	}
	m.WorkersActive.Dec()
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
