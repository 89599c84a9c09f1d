// Package telemetry exposes the engine's running counters as Prometheus
// metrics. A long-running SCOPF batch job benefits from the same
// counters an operator would want from any monitored service:
// micro-iterations run, cuts added, LU refactorizations, and variant
// outcomes broken down by diagnostic code.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/metrix-scopf/metrix/internal/diagnostics"
)

// Metrics bundles every counter/gauge the engine updates during a run.
// Registered against its own registry (not the global default) so a
// process embedding this package more than once (tests, the reference
// solver's test harness) never hits a duplicate-registration panic.
type Metrics struct {
	registry *prometheus.Registry

	MicroIterations  prometheus.Counter
	CutsAdded        prometheus.Counter
	LURefactorizations prometheus.Counter
	VariantOutcomes  *prometheus.CounterVec
	ActiveVariants   prometheus.Gauge
}

// New builds a fresh Metrics bundle on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		MicroIterations: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "metrix",
			Name:      "micro_iterations_total",
			Help:      "Total SCOPF micro-iterations executed across all variants.",
		}),
		CutsAdded: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "metrix",
			Name:      "cuts_added_total",
			Help:      "Total lazy cuts (transit, activation, curative) appended to the LP/MIP.",
		}),
		LURefactorizations: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "metrix",
			Name:      "lu_refactorizations_total",
			Help:      "Total successful SolveTheta phase-angle solves in the SCOPF micro-iteration loop; factorizations are not counted.",
		}),
		VariantOutcomes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "metrix",
			Name:      "variant_outcomes_total",
			Help:      "Variant terminations, partitioned by diagnostic code.",
		}, []string{"code"}),
		ActiveVariants: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Namespace: "metrix",
			Name:      "active_variants",
			Help:      "Number of variants currently being solved.",
		}),
	}
	return m
}

// ObserveOutcome increments the variant-outcomes counter for one
// diagnostics.Code.
func (m *Metrics) ObserveOutcome(code diagnostics.Code) {
	m.VariantOutcomes.WithLabelValues(code.String()).Inc()
}

// Handler returns an http.Handler serving this bundle's metrics in the
// Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
