package plan

import "github.com/kilianp07/airlift/core/model"

// Derive computes the plan metrics from its legs.
//
// A stop is a station visit, delimited by travel legs, during which at least
// one pickup or dropoff happened. Revisiting a station counts again.
func Derive(legs []model.FlightLeg, vehicle model.VehicleConfig) model.Metrics {
	var m model.Metrics
	active := false
	for _, l := range legs {
		switch l.Kind {
		case model.LegTravel:
			if active {
				m.TotalStops++
			}
			active = false
			m.TotalLegs++
			m.TotalDistance += l.Distance
		case model.LegPickup:
			active = true
		case model.LegDropoff:
			active = true
			for _, it := range l.Items {
				m.UnitsDelivered += it.SeatCost()
				m.TotalWeightDelivered += it.Weight()
			}
		}
		if r := vehicle.PayloadRatio(l.WeightAboard); r > m.PeakPayloadRatio {
			m.PeakPayloadRatio = r
		}
	}
	if active {
		m.TotalStops++
	}
	return m
}
