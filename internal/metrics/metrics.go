package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

const (
	ProviderRequests        = "owm_requests_total"
	ProviderRequestDuration = "owm_request_duration_seconds"
	SnapshotLoads           = "snapshot_loads_total"
	SnapshotWrites          = "snapshot_writes_total"
	SnapshotUpdateTimestamp = "snapshot_update_timestamp_seconds"
)

// Metrics owns a private registry so several instances can coexist in tests.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry   *prometheus.Registry
	counters   map[string]*prometheus.CounterVec
	histograms map[string]*prometheus.HistogramVec
	gauges     map[string]*prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry:   prometheus.NewRegistry(),
		counters:   make(map[string]*prometheus.CounterVec),
		histograms: make(map[string]*prometheus.HistogramVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}

	m.counters[ProviderRequests] = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: ProviderRequests,
			Help: "Total number of OpenWeatherMap API requests",
		},
		[]string{"endpoint", "status"},
	)

	m.counters[SnapshotLoads] = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: SnapshotLoads,
			Help: "Local snapshot loads by result",
		},
		[]string{"result"},
	)

	m.counters[SnapshotWrites] = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: SnapshotWrites,
			Help: "Snapshot file writes by status",
		},
		[]string{"status"},
	)

	m.histograms[ProviderRequestDuration] = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    ProviderRequestDuration,
			Help:    "Duration of OpenWeatherMap API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	m.gauges[SnapshotUpdateTimestamp] = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: SnapshotUpdateTimestamp,
			Help: "update_ts of the last written snapshot",
		},
		[]string{},
	)

	for _, c := range m.counters {
		m.registry.MustRegister(c)
	}
	for _, h := range m.histograms {
		m.registry.MustRegister(h)
	}
	for _, g := range m.gauges {
		m.registry.MustRegister(g)
	}

	return m
}

func (m *Metrics) IncrementCounter(name string, labelValues ...string) {
	if m == nil {
		return
	}
	if counter, exists := m.counters[name]; exists {
		counter.WithLabelValues(labelValues...).Inc()
	}
}

func (m *Metrics) ObserveHistogram(name string, value float64, labelValues ...string) {
	if m == nil {
		return
	}
	if histogram, exists := m.histograms[name]; exists {
		histogram.WithLabelValues(labelValues...).Observe(value)
	}
}

func (m *Metrics) SetGauge(name string, value float64, labelValues ...string) {
	if m == nil {
		return
	}
	if gauge, exists := m.gauges[name]; exists {
		gauge.WithLabelValues(labelValues...).Set(value)
	}
}

// CounterValue reads the current value of one counter series.
func (m *Metrics) CounterValue(name string, labelValues ...string) float64 {
	if m == nil {
		return 0
	}
	counter, exists := m.counters[name]
	if !exists {
		return 0
	}

	dtoMetric := &dto.Metric{}
	if err := counter.WithLabelValues(labelValues...).Write(dtoMetric); err != nil {
		return 0
	}
	return dtoMetric.GetCounter().GetValue()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
