// Package kpibackfill rebuilds the daily KPI records from saved scenarios.
package kpibackfill

import (
	"context"
	"fmt"

	"github.com/kilianp07/airlift/core/history"
	"github.com/kilianp07/airlift/core/metrics/kpi"
	"github.com/kilianp07/airlift/core/model"
	"github.com/kilianp07/airlift/core/planner"
)

// Planner computes the plans of a scenario.
type Planner interface {
	Run(ctx context.Context, sc model.Scenario) (planner.PlanSet, error)
}

// Backfill plans every entry again and adds one record per plan to store,
// dated on the day the entry was saved. It returns the number of records
// added.
func Backfill(ctx context.Context, p Planner, entries []history.Entry, store kpi.Store) (int, error) {
	n := 0
	for _, e := range entries {
		set, err := p.Run(ctx, e.Scenario)
		if err != nil {
			return n, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		for _, pl := range set.Plans {
			rec := kpi.Record{
				Strategy:       pl.Strategy,
				Date:           e.SavedAt,
				Plans:          1,
				UnitsDelivered: pl.Metrics.UnitsDelivered,
				Distance:       pl.Metrics.TotalDistance,
			}
			for _, r := range pl.Rejected {
				rec.Rejected += r.Request.SeatCost()
			}
			for _, r := range pl.Undelivered {
				rec.Rejected += r.Request.SeatCost()
			}
			if err := store.Add(rec); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}
