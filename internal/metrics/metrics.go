// Package metrics exposes Prometheus instrumentation for machine runs.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/espalier/pkg/automaton"
	"github.com/aretw0/espalier/pkg/modthree"
)

// Run outcomes used as the "outcome" label value.
const (
	OutcomeAccepted     = "accepted"
	OutcomeRejected     = "rejected"
	OutcomeInvalidInput = "invalid_input"
	OutcomeError        = "error"
)

// Metrics holds the collectors on a private registry, so multiple services
// in one process never fight over global registration.
type Metrics struct {
	registry *prometheus.Registry

	runs     *prometheus.CounterVec
	steps    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates the collectors and registers them.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espalier_runs_total",
				Help: "Total number of machine runs",
			},
			[]string{"machine", "outcome"},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "espalier_steps_total",
				Help: "Total number of symbols consumed",
			},
			[]string{"machine"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "espalier_run_duration_seconds",
				Help: "Duration of machine runs",
			},
			[]string{"machine"},
		),
	}
	m.registry.MustRegister(m.runs, m.steps, m.duration)
	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRun records one completed run: its outcome, duration, and how many
// symbols were consumed before it ended.
func (m *Metrics) ObserveRun(machine string, err error, elapsed time.Duration, steps int) {
	m.runs.WithLabelValues(machine, Outcome(err)).Inc()
	m.duration.WithLabelValues(machine).Observe(elapsed.Seconds())
	if steps > 0 {
		m.steps.WithLabelValues(machine).Add(float64(steps))
	}
}

// AddSteps records symbols consumed outside a full run, e.g. session steps.
func (m *Metrics) AddSteps(machine string, n int) {
	if n > 0 {
		m.steps.WithLabelValues(machine).Add(float64(n))
	}
}

// Outcome classifies a run error into a bounded label value.
func Outcome(err error) string {
	if err == nil {
		return OutcomeAccepted
	}

	var rejected *automaton.RejectedError
	if errors.As(err, &rejected) {
		return OutcomeRejected
	}

	var input *automaton.InputError
	if errors.As(err, &input) {
		return OutcomeInvalidInput
	}

	var chars *modthree.InvalidCharacterError
	if errors.As(err, &chars) {
		return OutcomeInvalidInput
	}

	return OutcomeError
}
