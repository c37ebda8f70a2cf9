package dispatch

import (
	"fmt"
	"slices"

	"github.com/brunoga/deep"
	"github.com/google/uuid"

	"github.com/kilianp07/airlift/core/model"
	"github.com/kilianp07/airlift/core/plan"
)

// planNamespace seeds the name-based plan ids.
var planNamespace = uuid.MustParse("5b8f2f1e-4c1d-4a8e-9a57-2f6c1f0e9d3a")

// Simulate dispatches the aircraft over the requests of one shift using the
// given strategy and returns the resulting plan.
//
// The input slice is never modified. Requests that can never board are
// listed in Rejected; requests left over when the loop stops are listed in
// Undelivered, except units bound for the base which are unloaded on the
// final return. Simulate does not fail: the caller always gets a renderable
// plan. Identical inputs produce identical plans.
func Simulate(
	requests []model.TransportRequest,
	vehicle model.VehicleConfig,
	network *model.Network,
	strategy Strategy,
	shift model.Shift,
	opts ...Option,
) model.DispatchPlan {
	o := newOptions(opts)

	pool := deep.MustCopy(requests)
	scoped := make([]model.TransportRequest, 0, len(pool))
	filter, _ := strategy.(PoolFilter)
	excluded := 0
	for _, r := range pool {
		if r.Shift != shift {
			continue
		}
		if filter != nil && !filter.Accepts(r) {
			excluded++
			continue
		}
		scoped = append(scoped, r)
	}

	id := o.planID
	if id == "" {
		id = PlanID(strategy.Name(), shift, model.Scenario{
			Stations: network.Stations(),
			Vehicle:  vehicle,
			Requests: scoped,
		})
	}

	waiting, rejected := screen(scoped, vehicle, o.cfg.SplitGroups)
	e := &engine{
		vehicle:  vehicle,
		network:  network,
		strategy: strategy,
		split:    o.cfg.SplitGroups,
		maxIter:  o.cfg.MaxIterations,
		waiting:  waiting,
		b:        plan.NewBuilder(vehicle, network, model.Base),
	}
	e.admit, _ = strategy.(AdmissionFilter)

	outcome, iterations := e.run()
	if e.b.Current() != model.Base {
		e.b.Travel(model.Base, e.aboard, "Final return to Base")
	}
	e.dropoff()

	var undelivered []model.Rejection
	for _, r := range e.aboard {
		undelivered = append(undelivered, model.Rejection{Request: r, Reason: model.RejectUndelivered})
	}
	for _, r := range e.waiting {
		undelivered = append(undelivered, model.Rejection{Request: r, Reason: model.RejectUndelivered})
	}

	return e.b.Build(plan.Meta{
		ID:          id,
		Strategy:    strategy.Name(),
		Title:       Title(strategy.Name()),
		Shift:       shift,
		Requested:   len(scoped),
		Excluded:    excluded,
		Rejected:    rejected,
		Undelivered: undelivered,
		Outcome:     outcome,
		Iterations:  iterations,
	})
}

// PlanID derives a stable plan id from the strategy, the shift and the
// planning inputs.
func PlanID(strategy string, shift model.Shift, sc model.Scenario) string {
	name := fmt.Sprintf("%s|%s|%016x", strategy, shift, sc.Fingerprint())
	return uuid.NewSHA1(planNamespace, []byte(name)).String()
}

// screen separates the requests that can never board from the others.
func screen(reqs []model.TransportRequest, v model.VehicleConfig, split bool) ([]model.TransportRequest, []model.Rejection) {
	var ok []model.TransportRequest
	var rejected []model.Rejection
	for _, r := range reqs {
		splittable := split && r.Splittable()
		switch {
		case r.SeatCost() > v.SeatCapacity && !splittable:
			rejected = append(rejected, model.Rejection{Request: r, Reason: model.RejectSeats})
		case splittable && r.UnitWeight > v.MaxPayloadWeight:
			rejected = append(rejected, model.Rejection{Request: r, Reason: model.RejectWeight})
		case !splittable && r.Weight() > v.MaxPayloadWeight:
			rejected = append(rejected, model.Rejection{Request: r, Reason: model.RejectWeight})
		default:
			ok = append(ok, r)
		}
	}
	return ok, rejected
}

type engine struct {
	vehicle  model.VehicleConfig
	network  *model.Network
	strategy Strategy
	admit    AdmissionFilter
	split    bool
	maxIter  int

	waiting []model.TransportRequest
	aboard  []model.TransportRequest
	b       *plan.Builder
}

func (e *engine) run() (model.Outcome, int) {
	for iter := 1; iter <= e.maxIter; iter++ {
		e.dropoff()
		e.pickup()

		if len(e.waiting) == 0 && len(e.aboard) == 0 {
			return model.OutcomeComplete, iter
		}

		next, ok := e.strategy.NextStation(e.snapshot())
		if !ok || next == e.b.Current() || !e.network.Contains(next) {
			// Failsafe: bring the load home. Nothing aboard, or already home,
			// means no further progress is possible.
			if len(e.aboard) == 0 || e.b.Current() == model.Base {
				return model.OutcomeStuck, iter
			}
			e.b.Travel(model.Base, e.aboard, fmt.Sprintf("Failsafe return from %s to Base", e.b.Current()))
			continue
		}
		e.b.Travel(next, e.aboard, "")
	}
	return model.OutcomeFuse, e.maxIter
}

func (e *engine) snapshot() Snapshot {
	seats, weight := e.b.Load()
	return Snapshot{
		Current:     e.b.Current(),
		Waiting:     e.waiting,
		Aboard:      e.aboard,
		Seats:       seats,
		Weight:      weight,
		Vehicle:     e.vehicle,
		Network:     e.network,
		SplitGroups: e.split,
	}
}

// dropoff unloads every unit bound for the current station.
func (e *engine) dropoff() {
	here := e.b.Current()
	var keep, drop []model.TransportRequest
	for _, r := range e.aboard {
		if r.Destination == here {
			drop = append(drop, r)
		} else {
			keep = append(keep, r)
		}
	}
	e.aboard = keep
	e.b.Dropoff(drop)
}

// pickup boards, in strategy order, every waiting unit of the current
// station that respects the segregation lock and the remaining capacity.
func (e *engine) pickup() {
	here := e.b.Current()
	var station []model.TransportRequest
	for _, r := range e.waiting {
		if r.Origin == here {
			station = append(station, r)
		}
	}
	if len(station) == 0 {
		return
	}

	snap := e.snapshot()
	var boarded []model.TransportRequest
	for _, r := range e.strategy.Rank(station) {
		if k, locked := snap.LockedKind(); locked && k != r.Kind {
			continue
		}
		if e.admit != nil && !e.admit.Admissible(snap, r) {
			continue
		}
		take := r
		if !e.vehicle.Fits(snap.Seats+r.SeatCost(), snap.Weight+r.Weight()) {
			if !e.split || !r.Splittable() {
				continue
			}
			n := fittingUnits(r, e.vehicle.SeatCapacity-snap.Seats, e.vehicle.MaxPayloadWeight-snap.Weight)
			if n == 0 {
				continue
			}
			take, _ = r.Split(n)
		}
		if !e.take(r, take) {
			continue
		}
		boarded = append(boarded, take)
		snap.Aboard = append(slices.Clone(snap.Aboard), take)
		snap.Waiting = e.waiting
		snap.Seats += take.SeatCost()
		snap.Weight += take.Weight()
	}
	if len(boarded) == 0 {
		return
	}
	e.aboard = append(e.aboard, boarded...)
	e.b.Pickup(boarded)
}

// take removes the boarded portion of r from the waiting pool.
func (e *engine) take(r, portion model.TransportRequest) bool {
	i := slices.Index(e.waiting, r)
	if i < 0 {
		return false
	}
	if portion.Quantity < r.Quantity {
		_, rest := r.Split(portion.Quantity)
		e.waiting = slices.Clone(e.waiting)
		e.waiting[i] = rest
		return true
	}
	e.waiting = slices.Delete(slices.Clone(e.waiting), i, i+1)
	return true
}
