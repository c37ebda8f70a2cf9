// Package kpi exposes the daily strategy KPIs over HTTP.
package kpi

import (
	"net/http"
	"time"

	"github.com/kilianp07/airlift/api"
	corekpi "github.com/kilianp07/airlift/core/metrics/kpi"
)

type dayKPI struct {
	Strategy         string  `json:"strategy"`
	Date             string  `json:"date"`
	Plans            int     `json:"plans"`
	UnitsDelivered   int     `json:"units_delivered"`
	Distance         float64 `json:"distance"`
	Rejected         int     `json:"rejected"`
	UnitsPerDistance float64 `json:"units_per_distance"`
	MeanDistance     float64 `json:"mean_distance"`
}

// NewHandler serves GET /api/kpi?strategy=&start=&end= with RFC3339 bounds.
// A missing end means now.
func NewHandler(store corekpi.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		start, _ := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
		end, _ := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
		if end.IsZero() {
			end = time.Now()
		}
		recs, err := store.Query(r.URL.Query().Get("strategy"), start, end)
		if err != nil {
			api.WriteJSON(w, http.StatusInternalServerError, api.ErrorBody{Error: err.Error()})
			return
		}
		out := make([]dayKPI, len(recs))
		for i, rec := range recs {
			out[i] = dayKPI{
				Strategy:         rec.Strategy,
				Date:             rec.Date.Format("2006-01-02"),
				Plans:            rec.Plans,
				UnitsDelivered:   rec.UnitsDelivered,
				Distance:         rec.Distance,
				Rejected:         rec.Rejected,
				UnitsPerDistance: rec.UnitsPerDistance(),
				MeanDistance:     rec.MeanDistance(),
			}
		}
		api.WriteJSON(w, http.StatusOK, out)
	})
}
