package scenario

import (
	"errors"
	"fmt"

	"github.com/kilianp07/airlift/core/model"
)

// Validate reports every problem found in the scenario at once.
func Validate(sc model.Scenario) error {
	var errs []error
	network, err := model.NewNetwork(sc.Stations)
	if err != nil {
		errs = append(errs, err)
	}
	if err := sc.Vehicle.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("vehicle: %w", err))
	}
	seen := make(map[string]bool, len(sc.Requests))
	for i, r := range sc.Requests {
		where := fmt.Sprintf("request %d (%s)", i, r.ID)
		if r.ID == "" {
			errs = append(errs, fmt.Errorf("request %d: empty id", i))
		} else if seen[r.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate id", where))
		}
		seen[r.ID] = true
		if r.Kind != model.KindPassenger && r.Kind != model.KindCargo {
			errs = append(errs, fmt.Errorf("%s: unknown kind %d", where, r.Kind))
		}
		if r.Shift != model.ShiftMorning && r.Shift != model.ShiftAfternoon {
			errs = append(errs, fmt.Errorf("%s: unknown shift %d", where, r.Shift))
		}
		if r.Priority < model.MinPriority || r.Priority > model.MaxPriority {
			errs = append(errs, fmt.Errorf("%s: priority %d outside [%d,%d]", where, r.Priority, model.MinPriority, model.MaxPriority))
		}
		if network != nil {
			if !network.Contains(r.Origin) {
				errs = append(errs, fmt.Errorf("%s: unknown origin %d", where, r.Origin))
			}
			if !network.Contains(r.Destination) {
				errs = append(errs, fmt.Errorf("%s: unknown destination %d", where, r.Destination))
			}
		}
		if r.Origin == r.Destination {
			errs = append(errs, fmt.Errorf("%s: origin equals destination", where))
		}
		if r.Quantity < 1 {
			errs = append(errs, fmt.Errorf("%s: quantity must be at least 1", where))
		}
		if r.Kind == model.KindCargo && r.Quantity > 1 {
			errs = append(errs, fmt.Errorf("%s: cargo quantity must be 1", where))
		}
		if !model.Finite(r.UnitWeight) {
			errs = append(errs, fmt.Errorf("%s: unit weight must be finite", where))
		} else if r.UnitWeight < 0 {
			errs = append(errs, fmt.Errorf("%s: negative unit weight", where))
		}
	}
	return errors.Join(errs...)
}
