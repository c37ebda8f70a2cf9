// Package replay re-walks a dispatch plan leg by leg and rebuilds the cabin
// state, rejecting plans that could not be flown.
package replay

import (
	"errors"
	"fmt"
	"slices"

	"github.com/kilianp07/airlift/core/model"
)

var (
	// ErrCapacity is returned when a leg exceeds the seat or weight limit.
	ErrCapacity = errors.New("capacity exceeded")
	// ErrSegregation is returned when passengers and cargo share the cabin.
	ErrSegregation = errors.New("passengers and cargo aboard together")
	// ErrUnknownItem is returned when a unit is unloaded without being aboard.
	ErrUnknownItem = errors.New("unit not aboard")
	// ErrWrongStation is returned when a leg happens away from the aircraft
	// position or a unit is unloaded away from its destination.
	ErrWrongStation = errors.New("wrong station")
)

// Frame is the cabin state once a leg has been flown.
type Frame struct {
	Index   int                      `json:"index"`
	Kind    model.LegKind            `json:"kind"`
	Station model.StationID          `json:"station"`
	Aboard  []model.TransportRequest `json:"aboard"`
	Seats   int                      `json:"seats"`
	Weight  float64                  `json:"weight"`
}

// Cabin tracks the units aboard and enforces the vehicle limits.
type Cabin struct {
	vehicle model.VehicleConfig
	aboard  []model.TransportRequest
	seats   int
	weight  float64
}

// NewCabin returns an empty cabin for the vehicle.
func NewCabin(v model.VehicleConfig) *Cabin { return &Cabin{vehicle: v} }

// Board adds units to the cabin.
func (c *Cabin) Board(items []model.TransportRequest) error {
	for _, it := range items {
		for _, a := range c.aboard {
			if a.Kind != it.Kind {
				return fmt.Errorf("%w: %s boarding with %s", ErrSegregation, it.ID, a.ID)
			}
		}
		c.seats += it.SeatCost()
		c.weight += it.Weight()
		c.aboard = append(c.aboard, it)
	}
	if !c.vehicle.Fits(c.seats, c.weight) {
		return fmt.Errorf("%w: %d seats %.1f weight for limits %d / %.1f",
			ErrCapacity, c.seats, c.weight, c.vehicle.SeatCapacity, c.vehicle.MaxPayloadWeight)
	}
	return nil
}

// Unload removes units bound for station from the cabin.
func (c *Cabin) Unload(station model.StationID, items []model.TransportRequest) error {
	for _, it := range items {
		i := slices.Index(c.aboard, it)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrUnknownItem, it.ID)
		}
		if it.Destination != station {
			return fmt.Errorf("%w: %s unloaded at %s, bound for %s", ErrWrongStation, it.ID, station, it.Destination)
		}
		c.aboard = slices.Delete(c.aboard, i, i+1)
		c.seats -= it.SeatCost()
		c.weight -= it.Weight()
	}
	if c.seats == 0 {
		c.weight = 0
	}
	return nil
}

// Aboard returns a copy of the manifest.
func (c *Cabin) Aboard() []model.TransportRequest { return slices.Clone(c.aboard) }

// Load returns the seats and weight aboard.
func (c *Cabin) Load() (int, float64) { return c.seats, c.weight }

// Replay flies the plan from the base and returns one frame per leg. It stops
// at the first leg that breaks a rule, returning the frames flown so far.
func Replay(p model.DispatchPlan, vehicle model.VehicleConfig) ([]Frame, error) {
	cabin := NewCabin(vehicle)
	at := model.Base
	frames := make([]Frame, 0, len(p.Legs))
	for i, leg := range p.Legs {
		var err error
		switch leg.Kind {
		case model.LegTravel:
			if leg.From != at {
				err = fmt.Errorf("%w: departing %s while at %s", ErrWrongStation, leg.From, at)
			}
			at = leg.Station
		case model.LegPickup:
			if leg.Station != at {
				err = fmt.Errorf("%w: boarding at %s while at %s", ErrWrongStation, leg.Station, at)
			} else {
				err = cabin.Board(leg.Items)
			}
		case model.LegDropoff:
			if leg.Station != at {
				err = fmt.Errorf("%w: unloading at %s while at %s", ErrWrongStation, leg.Station, at)
			} else {
				err = cabin.Unload(at, leg.Items)
			}
		default:
			err = fmt.Errorf("unknown leg kind %d", leg.Kind)
		}
		if err != nil {
			return frames, fmt.Errorf("leg %d: %w", i, err)
		}
		seats, weight := cabin.Load()
		frames = append(frames, Frame{
			Index:   i,
			Kind:    leg.Kind,
			Station: at,
			Aboard:  cabin.Aboard(),
			Seats:   seats,
			Weight:  weight,
		})
	}
	return frames, nil
}

// Verify replays the plan and only reports the first violation.
func Verify(p model.DispatchPlan, vehicle model.VehicleConfig) error {
	_, err := Replay(p, vehicle)
	return err
}
