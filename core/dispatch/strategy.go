package dispatch

import "github.com/kilianp07/airlift/core/model"

// Snapshot is the engine state handed to a strategy. Slices are shared with
// the engine and must be treated as read-only.
type Snapshot struct {
	Current     model.StationID
	Waiting     []model.TransportRequest
	Aboard      []model.TransportRequest
	Seats       int
	Weight      float64
	Vehicle     model.VehicleConfig
	Network     *model.Network
	SplitGroups bool
}

// Strategy decides the pickup order at a station and the next station to
// fly to. Implementations must be pure: same snapshot, same answer.
type Strategy interface {
	Name() string
	// Rank orders the requests waiting at the current station.
	Rank(waiting []model.TransportRequest) []model.TransportRequest
	// NextStation is called once nothing more can be loaded or unloaded at
	// the current station. false means no target is left.
	NextStation(s Snapshot) (model.StationID, bool)
}

// PoolFilter is implemented by strategies that only serve part of the
// requests of a shift.
type PoolFilter interface {
	Accepts(r model.TransportRequest) bool
}

// AdmissionFilter is implemented by strategies that restrict which ranked
// candidates may board.
type AdmissionFilter interface {
	Admissible(s Snapshot, r model.TransportRequest) bool
}

// LockedKind returns the kind of the units aboard, if any.
func (s Snapshot) LockedKind() (model.Kind, bool) {
	if len(s.Aboard) == 0 {
		return 0, false
	}
	return s.Aboard[0].Kind, true
}

// Full reports whether every seat is taken.
func (s Snapshot) Full() bool { return s.Seats >= s.Vehicle.SeatCapacity }

// CanBoard reports whether r could board now given the segregation lock and
// the remaining capacity.
func (s Snapshot) CanBoard(r model.TransportRequest) bool {
	if k, ok := s.LockedKind(); ok && k != r.Kind {
		return false
	}
	if s.Vehicle.Fits(s.Seats+r.SeatCost(), s.Weight+r.Weight()) {
		return true
	}
	if !s.SplitGroups || !r.Splittable() {
		return false
	}
	return fittingUnits(r, s.Vehicle.SeatCapacity-s.Seats, s.Vehicle.MaxPayloadWeight-s.Weight) > 0
}
