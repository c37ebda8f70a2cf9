package dispatch

import (
	"github.com/kilianp07/airlift/core/model"
)

// PriorityFirst serves one kind before the other and, within a kind, the
// most urgent requests first. It heads for the nearest of the pending
// dropoffs and the origin of the most urgent request that could board.
type PriorityFirst struct {
	name  string
	first model.Kind
	// preferFirstInFallback narrows the fallback pool to the preferred kind
	// when it has any outstanding request.
	preferFirstInFallback bool
}

// NewPassengerFirst returns the passenger-first strategy.
func NewPassengerFirst() PriorityFirst {
	return PriorityFirst{name: PassengerFirstName, first: model.KindPassenger}
}

// NewCargoFirst returns the cargo-first strategy.
func NewCargoFirst() PriorityFirst {
	return PriorityFirst{name: CargoFirstName, first: model.KindCargo, preferFirstInFallback: true}
}

func (p PriorityFirst) Name() string { return p.name }

func (p PriorityFirst) Rank(waiting []model.TransportRequest) []model.TransportRequest {
	return rankStable(waiting, kindThenPriority(p.first))
}

func (p PriorityFirst) NextStation(s Snapshot) (model.StationID, bool) {
	targets := dropoffStations(s)
	if cands := pickupTargets(s); len(cands) > 0 {
		top := p.Rank(cands)[0]
		targets = append(targets, top.Origin)
	}
	if next, ok := s.Network.Nearest(s.Current, targets); ok {
		return next, true
	}
	return p.fallback(s)
}

// fallback considers every outstanding request, boardable or not.
func (p PriorityFirst) fallback(s Snapshot) (model.StationID, bool) {
	drops := dropoffStations(s)
	if p.preferFirstInFallback {
		var preferred []model.TransportRequest
		for _, r := range s.Waiting {
			if r.Kind == p.first {
				preferred = append(preferred, r)
			}
		}
		if next, ok := s.Network.Nearest(s.Current, append(origins(s, preferred), drops...)); ok {
			return next, true
		}
	}
	return s.Network.Nearest(s.Current, append(origins(s, s.Waiting), drops...))
}
