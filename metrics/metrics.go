// Package metrics holds the Prometheus instruments for the compliance service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	WindowsComputed   prometheus.Counter
	ForecastsRun      prometheus.Counter
	ConflictsDetected prometheus.Counter
	BreachesObserved  prometheus.Counter
}

// New creates and registers all metrics on the given registerer. Pass
// prometheus.DefaultRegisterer in main and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		WindowsComputed: f.NewCounter(prometheus.CounterOpts{
			Name: "schengen_windows_computed_total",
			Help: "Total number of compliance windows computed",
		}),
		ForecastsRun: f.NewCounter(prometheus.CounterOpts{
			Name: "schengen_forecasts_run_total",
			Help: "Total number of trip forecasts evaluated",
		}),
		ConflictsDetected: f.NewCounter(prometheus.CounterOpts{
			Name: "schengen_trip_conflicts_total",
			Help: "Total number of overlapping trip writes rejected",
		}),
		BreachesObserved: f.NewCounter(prometheus.CounterOpts{
			Name: "schengen_breaches_observed_total",
			Help: "Total number of computed windows classified as breach",
		}),
	}
}
