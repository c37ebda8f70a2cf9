package plan

import (
	"fmt"
	"slices"

	"github.com/kilianp07/airlift/core/model"
)

// Meta carries the plan attributes that do not come from the legs.
type Meta struct {
	ID          string
	Strategy    string
	Title       string
	Shift       model.Shift
	Requested   int
	Excluded    int
	Rejected    []model.Rejection
	Undelivered []model.Rejection
	Outcome     model.Outcome
	Iterations  int
}

// Builder records legs while tracking the position and the load aboard.
type Builder struct {
	vehicle model.VehicleConfig
	network *model.Network
	current model.StationID
	seats   int
	weight  float64
	legs    []model.FlightLeg
	built   bool
}

// NewBuilder starts an itinerary at the given station.
func NewBuilder(vehicle model.VehicleConfig, network *model.Network, start model.StationID) *Builder {
	return &Builder{vehicle: vehicle, network: network, current: start}
}

// Current returns the station the aircraft is at.
func (b *Builder) Current() model.StationID { return b.current }

// Len returns the number of legs recorded so far.
func (b *Builder) Len() int { return len(b.legs) }

// Load returns the seats and weight currently aboard.
func (b *Builder) Load() (int, float64) { return b.seats, b.weight }

// Travel records a flight to station carrying the given load.
func (b *Builder) Travel(to model.StationID, aboard []model.TransportRequest, note string) {
	from := b.current
	if note == "" {
		note = fmt.Sprintf("Flying from %s to %s", from, to)
	}
	b.legs = append(b.legs, model.FlightLeg{
		Kind:         model.LegTravel,
		Station:      to,
		From:         from,
		Distance:     b.network.Distance(from, to),
		Items:        slices.Clone(aboard),
		SeatsAboard:  b.seats,
		WeightAboard: b.weight,
		Note:         note,
	})
	b.current = to
}

// Pickup records a batch of units boarding at the current station.
func (b *Builder) Pickup(items []model.TransportRequest) {
	if len(items) == 0 {
		return
	}
	for _, it := range items {
		b.seats += it.SeatCost()
		b.weight += it.Weight()
	}
	b.legs = append(b.legs, model.FlightLeg{
		Kind:         model.LegPickup,
		Station:      b.current,
		Items:        slices.Clone(items),
		SeatsAboard:  b.seats,
		WeightAboard: b.weight,
		Note:         fmt.Sprintf("Boarding %s at %s", describe(items), b.current),
	})
}

// Dropoff records a batch of units unloaded at the current station.
func (b *Builder) Dropoff(items []model.TransportRequest) {
	if len(items) == 0 {
		return
	}
	for _, it := range items {
		b.seats -= it.SeatCost()
		b.weight -= it.Weight()
	}
	if b.seats == 0 {
		// avoid float residue once the cabin is empty
		b.weight = 0
	}
	b.legs = append(b.legs, model.FlightLeg{
		Kind:         model.LegDropoff,
		Station:      b.current,
		Items:        slices.Clone(items),
		SeatsAboard:  b.seats,
		WeightAboard: b.weight,
		Note:         fmt.Sprintf("Unloading %s at %s", describe(items), b.current),
	})
}

// Build freezes the legs into a DispatchPlan. The builder must not be used
// afterwards.
func (b *Builder) Build(meta Meta) model.DispatchPlan {
	if b.built {
		panic("plan: Build called twice")
	}
	b.built = true
	legs := b.legs
	b.legs = nil
	return model.DispatchPlan{
		ID:          meta.ID,
		Strategy:    meta.Strategy,
		Title:       meta.Title,
		Shift:       meta.Shift,
		Legs:        legs,
		Metrics:     Derive(legs, b.vehicle),
		Requested:   meta.Requested,
		Excluded:    meta.Excluded,
		Rejected:    slices.Clone(meta.Rejected),
		Undelivered: slices.Clone(meta.Undelivered),
		Outcome:     meta.Outcome,
		Iterations:  meta.Iterations,
	}
}

func describe(items []model.TransportRequest) string {
	units := 0
	for _, it := range items {
		units += it.SeatCost()
	}
	if len(items) > 0 && items[0].Kind == model.KindCargo {
		return fmt.Sprintf("%d cargo item(s)", units)
	}
	return fmt.Sprintf("%d passenger(s)", units)
}
