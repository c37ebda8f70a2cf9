package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/airlift/core/metrics"
	"github.com/kilianp07/airlift/core/metrics/kpi"
)

// KPISink aggregates plans into daily per-strategy KPI records and exposes
// the aggregates as gauges.
type KPISink struct {
	store    kpi.Store
	yield    *prometheus.GaugeVec
	distance *prometheus.GaugeVec
}

// NewKPISink creates a sink with its gauges registered on reg.
func NewKPISink(store kpi.Store, reg prometheus.Registerer) (*KPISink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	yield, err := Register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "airlift_kpi_units_per_distance",
		Help: "Daily seat units delivered per distance unit flown",
	}, []string{"strategy", "day"}))
	if err != nil {
		return nil, err
	}
	distance, err := Register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "airlift_kpi_mean_distance",
		Help: "Daily mean distance per plan",
	}, []string{"strategy", "day"}))
	if err != nil {
		return nil, err
	}
	return &KPISink{store: store, yield: yield, distance: distance}, nil
}

// Store returns the underlying KPI store.
func (s *KPISink) Store() kpi.Store { return s.store }

// RecordPlan adds the plan to the daily record of its strategy.
func (s *KPISink) RecordPlan(ev coremetrics.PlanEvent) error {
	p := ev.Plan
	rec := kpi.Record{
		Strategy:       p.Strategy,
		Date:           ev.Time,
		Plans:          1,
		UnitsDelivered: p.Metrics.UnitsDelivered,
		Distance:       p.Metrics.TotalDistance,
		Rejected:       rejectedUnits(p),
	}
	if err := s.store.Add(rec); err != nil {
		return err
	}
	day := kpi.Day(ev.Time)
	records, err := s.store.Query(p.Strategy, day, day)
	if err != nil || len(records) == 0 {
		return err
	}
	dayStr := day.Format("2006-01-02")
	s.yield.WithLabelValues(p.Strategy, dayStr).Set(records[0].UnitsPerDistance())
	s.distance.WithLabelValues(p.Strategy, dayStr).Set(records[0].MeanDistance())
	return nil
}
