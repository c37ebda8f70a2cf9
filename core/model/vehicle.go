package model

import (
	"fmt"
	"math"
)

// VehicleConfig describes the limits of the aircraft for a run.
type VehicleConfig struct {
	SeatCapacity     int     `json:"seat_capacity" yaml:"seat_capacity"`
	MaxPayloadWeight float64 `json:"max_payload_weight" yaml:"max_payload_weight"`
}

// Validate checks that the vehicle limits are usable.
func (v VehicleConfig) Validate() error {
	if v.SeatCapacity <= 0 {
		return fmt.Errorf("seat capacity must be positive")
	}
	if !Finite(v.MaxPayloadWeight) {
		return fmt.Errorf("max payload weight must be finite")
	}
	if v.MaxPayloadWeight <= 0 {
		return fmt.Errorf("max payload weight must be positive")
	}
	return nil
}

// Finite reports whether f is neither NaN nor infinite.
func Finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Fits reports whether a load of seats and weight respects the limits.
func (v VehicleConfig) Fits(seats int, weight float64) bool {
	return seats <= v.SeatCapacity && weight <= v.MaxPayloadWeight
}

// PayloadRatio returns weight as a fraction of the payload ceiling.
func (v VehicleConfig) PayloadRatio(weight float64) float64 {
	if v.MaxPayloadWeight <= 0 {
		return 0
	}
	return weight / v.MaxPayloadWeight
}
