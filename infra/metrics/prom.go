package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/airlift/core/metrics"
)

// PromSink records plan events in Prometheus metrics.
type PromSink struct {
	plans    *prometheus.CounterVec
	distance *prometheus.HistogramVec
	units    *prometheus.CounterVec
	rejected *prometheus.CounterVec
	history  *prometheus.CounterVec
}

// NewPromSink registers plan metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Metrics
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	plans, err := Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "airlift_plans_total",
		Help: "Total number of computed plans",
	}, []string{"strategy", "shift", "outcome"}))
	if err != nil {
		return nil, err
	}
	distance, err := Register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "airlift_plan_distance",
		Help:    "Distance flown per plan, in map units",
		Buckets: prometheus.ExponentialBuckets(250, 2, 8),
	}, []string{"strategy"}))
	if err != nil {
		return nil, err
	}
	units, err := Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "airlift_units_delivered_total",
		Help: "Seat units delivered by computed plans",
	}, []string{"strategy"}))
	if err != nil {
		return nil, err
	}
	rejected, err := Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "airlift_units_not_delivered_total",
		Help: "Seat units rejected or left undelivered by computed plans",
	}, []string{"strategy"}))
	if err != nil {
		return nil, err
	}
	history, err := Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "airlift_history_events_total",
		Help: "Scenario history operations",
	}, []string{"action", "backend"}))
	if err != nil {
		return nil, err
	}
	return &PromSink{plans: plans, distance: distance, units: units, rejected: rejected, history: history}, nil
}

// Register registers c on reg, returning the collector already registered
// under the same description if there is one.
func Register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
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

// RecordPlan updates the plan counters and the distance histogram.
func (s *PromSink) RecordPlan(ev coremetrics.PlanEvent) error {
	p := ev.Plan
	s.plans.WithLabelValues(p.Strategy, p.Shift.String(), string(p.Outcome)).Inc()
	s.distance.WithLabelValues(p.Strategy).Observe(p.Metrics.TotalDistance)
	s.units.WithLabelValues(p.Strategy).Add(float64(p.Metrics.UnitsDelivered))
	s.rejected.WithLabelValues(p.Strategy).Add(float64(rejectedUnits(p)))
	return nil
}

// RecordHistory counts history operations.
func (s *PromSink) RecordHistory(ev coremetrics.HistoryEvent) error {
	s.history.WithLabelValues(string(ev.Action), ev.Backend).Inc()
	return nil
}
