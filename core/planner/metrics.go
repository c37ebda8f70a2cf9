package planner

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/airlift/core/model"
)

type runnerMetrics struct {
	duration   *prometheus.HistogramVec
	iterations *prometheus.HistogramVec
	rejected   *prometheus.CounterVec
}

func newRunnerMetrics(reg prometheus.Registerer) (*runnerMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	duration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "airlift_simulation_duration_seconds",
		Help:    "Time spent computing one plan",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"strategy"}))
	if err != nil {
		return nil, err
	}
	iterations, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "airlift_simulation_iterations",
		Help:    "Engine iterations used by one plan",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	}, []string{"strategy"}))
	if err != nil {
		return nil, err
	}
	rejected, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "airlift_plans_rejected_requests_total",
		Help: "Requests rejected or left undelivered, by reason",
	}, []string{"strategy", "reason"}))
	if err != nil {
		return nil, err
	}
	return &runnerMetrics{duration: duration, iterations: iterations, rejected: rejected}, nil
}

func (m *runnerMetrics) observe(p model.DispatchPlan, d time.Duration) {
	m.duration.WithLabelValues(p.Strategy).Observe(d.Seconds())
	m.iterations.WithLabelValues(p.Strategy).Observe(float64(p.Iterations))
	for _, r := range p.Rejected {
		m.rejected.WithLabelValues(p.Strategy, string(r.Reason)).Inc()
	}
	for _, r := range p.Undelivered {
		m.rejected.WithLabelValues(p.Strategy, string(r.Reason)).Inc()
	}
}

// register reuses a collector registered by an earlier runner.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
