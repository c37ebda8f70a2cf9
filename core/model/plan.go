package model

import (
	"fmt"
	"slices"
)

// LegKind is the action recorded by a FlightLeg.
type LegKind int

const (
	LegTravel LegKind = iota
	LegPickup
	LegDropoff
)

func (k LegKind) String() string {
	switch k {
	case LegTravel:
		return "TRAVEL"
	case LegPickup:
		return "PICKUP"
	case LegDropoff:
		return "DROPOFF"
	default:
		return "UNKNOWN"
	}
}

func (k LegKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *LegKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "TRAVEL":
		*k = LegTravel
	case "PICKUP":
		*k = LegPickup
	case "DROPOFF":
		*k = LegDropoff
	default:
		return fmt.Errorf("unknown leg kind %q", string(b))
	}
	return nil
}

// FlightLeg is one recorded action of an itinerary. Items holds the units
// boarded or unloaded, or the load carried for a travel leg. SeatsAboard and
// WeightAboard describe the load once the leg is done.
type FlightLeg struct {
	Kind         LegKind            `json:"kind"`
	Station      StationID          `json:"station"`
	From         StationID          `json:"from,omitempty"`
	Distance     float64            `json:"distance,omitempty"`
	Items        []TransportRequest `json:"items"`
	SeatsAboard  int                `json:"seats_aboard"`
	WeightAboard float64            `json:"weight_aboard"`
	Note         string             `json:"note"`
}

// Units returns the number of seat units carried by the leg items.
func (l FlightLeg) Units() int {
	n := 0
	for _, it := range l.Items {
		n += it.SeatCost()
	}
	return n
}

// Metrics summarises a plan.
type Metrics struct {
	TotalStops           int     `json:"total_stops"`
	TotalLegs            int     `json:"total_legs"`
	TotalDistance        float64 `json:"total_distance"`
	UnitsDelivered       int     `json:"units_delivered"`
	TotalWeightDelivered float64 `json:"total_weight_delivered"`
	PeakPayloadRatio     float64 `json:"peak_payload_ratio"`
}

// RejectReason explains why a request is missing from the itinerary.
type RejectReason string

const (
	RejectSeats       RejectReason = "exceeds_seat_capacity"
	RejectWeight      RejectReason = "exceeds_payload_weight"
	RejectUndelivered RejectReason = "undelivered"
)

// Rejection pairs a request with the reason it was not delivered.
type Rejection struct {
	Request TransportRequest `json:"request"`
	Reason  RejectReason     `json:"reason"`
}

// Outcome tells how a simulation ended.
type Outcome string

const (
	// OutcomeComplete means every admissible request was delivered.
	OutcomeComplete Outcome = "complete"
	// OutcomeStuck means no strategy decision could make progress.
	OutcomeStuck Outcome = "stuck"
	// OutcomeFuse means the iteration ceiling stopped the loop.
	OutcomeFuse Outcome = "fuse"
)

// DispatchPlan is the immutable result of one simulation.
type DispatchPlan struct {
	ID          string      `json:"id"`
	Strategy    string      `json:"strategy"`
	Title       string      `json:"title"`
	Shift       Shift       `json:"shift"`
	Legs        []FlightLeg `json:"legs"`
	Metrics     Metrics     `json:"metrics"`
	Requested   int         `json:"requested"`
	// Excluded counts requests of the shift that the strategy does not
	// serve, such as cargo under a passenger-only strategy.
	Excluded    int         `json:"excluded,omitempty"`
	Rejected    []Rejection `json:"rejected,omitempty"`
	Undelivered []Rejection `json:"undelivered,omitempty"`
	Outcome     Outcome     `json:"outcome"`
	Iterations  int         `json:"iterations"`
}

// Complete reports whether every requested unit was delivered. Excluded
// requests were never requested from this plan and do not count.
func (p DispatchPlan) Complete() bool {
	return p.Outcome == OutcomeComplete && len(p.Rejected) == 0
}

// LegsCopy returns a deep copy of the legs so callers cannot alter the plan.
func (p DispatchPlan) LegsCopy() []FlightLeg {
	out := make([]FlightLeg, len(p.Legs))
	for i, l := range p.Legs {
		l.Items = slices.Clone(l.Items)
		out[i] = l
	}
	return out
}
