// Package export renders dispatch plans for reports.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/airlift/core/model"
)

// WriteJSON writes the plans to w as an indented JSON array.
func WriteJSON(w io.Writer, plans []model.DispatchPlan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plans)
}

// WriteCSV writes the legs of a plan to w, one row per leg.
func WriteCSV(w io.Writer, p model.DispatchPlan) error {
	cw := csv.NewWriter(w)
	header := []string{"step", "action", "station", "from", "distance", "items", "units", "seats_aboard", "weight_aboard", "note"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, l := range p.Legs {
		from := ""
		if l.Kind == model.LegTravel {
			from = l.From.String()
		}
		rec := []string{
			strconv.Itoa(i + 1),
			l.Kind.String(),
			l.Station.String(),
			from,
			formatFloat(l.Distance),
			items(l.Items),
			strconv.Itoa(l.Units()),
			strconv.Itoa(l.SeatsAboard),
			formatFloat(l.WeightAboard),
			l.Note,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes one metrics row per plan.
func WriteSummaryCSV(w io.Writer, plans []model.DispatchPlan) error {
	cw := csv.NewWriter(w)
	header := []string{
		"strategy", "title", "shift", "outcome", "total_stops", "total_legs", "total_distance",
		"units_delivered", "weight_delivered", "peak_payload_ratio", "requested", "rejected", "undelivered", "excluded",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range plans {
		m := p.Metrics
		rec := []string{
			p.Strategy,
			p.Title,
			p.Shift.String(),
			string(p.Outcome),
			strconv.Itoa(m.TotalStops),
			strconv.Itoa(m.TotalLegs),
			formatFloat(m.TotalDistance),
			strconv.Itoa(m.UnitsDelivered),
			formatFloat(m.TotalWeightDelivered),
			strconv.FormatFloat(m.PeakPayloadRatio, 'f', 3, 64),
			strconv.Itoa(p.Requested),
			strconv.Itoa(len(p.Rejected)),
			strconv.Itoa(len(p.Undelivered)),
			strconv.Itoa(p.Excluded),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// items lists units as id or id x quantity for groups.
func items(rs []model.TransportRequest) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		if r.Kind == model.KindPassenger && r.Quantity > 1 {
			parts[i] = fmt.Sprintf("%s x%d", r.ID, r.Quantity)
		} else {
			parts[i] = r.ID
		}
	}
	return strings.Join(parts, ";")
}
