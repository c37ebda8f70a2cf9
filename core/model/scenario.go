package model

import "time"

// Scenario is the full input of a planning session: the field map, the
// aircraft and the requests of the day.
type Scenario struct {
	ID               string             `json:"id,omitempty" yaml:"id,omitempty"`
	Name             string             `json:"name" yaml:"name"`
	Stations         []Station          `json:"stations,omitempty" yaml:"stations,omitempty"`
	Vehicle          VehicleConfig      `json:"vehicle" yaml:"vehicle"`
	Requests         []TransportRequest `json:"requests" yaml:"requests"`
	WeatherNotes     string             `json:"weather_notes,omitempty" yaml:"weather_notes,omitempty"`
	OperationalNotes string             `json:"operational_notes,omitempty" yaml:"operational_notes,omitempty"`
	CreatedAt        time.Time          `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// RequestsFor returns the requests of the given shift, in input order.
func (s Scenario) RequestsFor(shift Shift) []TransportRequest {
	var out []TransportRequest
	for _, r := range s.Requests {
		if r.Shift == shift {
			out = append(out, r)
		}
	}
	return out
}
