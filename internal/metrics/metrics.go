// Package metrics exposes Prometheus metrics for registry loads, queries and
// exports.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/siruta/internal/core"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	registry *prometheus.Registry

	LoadsTotal       *prometheus.CounterVec
	LoadDuration     prometheus.Histogram
	DiagnosticsTotal *prometheus.CounterVec
	RegistryRecords  prometheus.Gauge
	RegistryCounties prometheus.Gauge
	LookupsTotal     *prometheus.CounterVec
	ExportsTotal     *prometheus.CounterVec
	ExportDuration   prometheus.Histogram
}

// New creates a Metrics instance registered on its own registry, together
// with the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		LoadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "siruta_registry_loads_total",
			Help: "Registry load attempts by result",
		}, []string{"result"}),
		LoadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "siruta_registry_load_duration_seconds",
			Help:    "Duration of registry loads",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		DiagnosticsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "siruta_registry_diagnostics_total",
			Help: "Load diagnostics by kind",
		}, []string{"kind"}),
		RegistryRecords: factory.NewGauge(prometheus.GaugeOpts{
			Name: "siruta_registry_records",
			Help: "Records in the active registry",
		}),
		RegistryCounties: factory.NewGauge(prometheus.GaugeOpts{
			Name: "siruta_registry_counties",
			Help: "County index entries in the active registry",
		}),
		LookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "siruta_lookups_total",
			Help: "Code lookups served over HTTP by result",
		}, []string{"result"}),
		ExportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "siruta_exports_total",
			Help: "PostgreSQL exports by result",
		}, []string{"result"}),
		ExportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "siruta_export_duration_seconds",
			Help:    "Duration of PostgreSQL exports",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer returns the underlying registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// InstrumentLoad wraps load so every attempt is counted and timed.
func (m *Metrics) InstrumentLoad(load core.LoadFunc) core.LoadFunc {
	return func(ctx context.Context) (*core.Registry, []core.Diagnostic, error) {
		start := time.Now()
		reg, diags, err := load(ctx)
		m.LoadDuration.Observe(time.Since(start).Seconds())

		for _, d := range diags {
			m.DiagnosticsTotal.WithLabelValues(string(d.Kind)).Inc()
		}
		if err != nil || reg == nil {
			m.LoadsTotal.WithLabelValues("failure").Inc()
			return reg, diags, err
		}

		m.LoadsTotal.WithLabelValues("success").Inc()
		return reg, diags, nil
	}
}

// Observer returns a reload observer updating the registry gauges.
func (m *Metrics) Observer() core.ReloadObserver {
	return func(_ context.Context, reg *core.Registry, _ []core.Diagnostic) {
		m.RegistryRecords.Set(float64(reg.Len()))
		m.RegistryCounties.Set(float64(reg.Stats().Counties))
	}
}

// ObserveLookup records a code lookup.
func (m *Metrics) ObserveLookup(found bool) {
	if found {
		m.LookupsTotal.WithLabelValues("found").Inc()
		return
	}
	m.LookupsTotal.WithLabelValues("not_found").Inc()
}

// ObserveExport records the outcome of an export started at start.
func (m *Metrics) ObserveExport(start time.Time, err error) {
	m.ExportDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.ExportsTotal.WithLabelValues("failure").Inc()
		return
	}
	m.ExportsTotal.WithLabelValues("success").Inc()
}
