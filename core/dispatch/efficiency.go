package dispatch

import "github.com/kilianp07/airlift/core/model"

// Efficiency minimises the next hop: it flies to the nearest station where
// something can be loaded or unloaded, and only to dropoffs once every seat
// is taken.
type Efficiency struct {
	name string
	// kind restricts the pool to a single kind; nil serves both.
	kind *model.Kind
}

// NewPureEfficiency returns the efficiency strategy restricted to one kind of
// request, as when passenger and cargo pools are planned separately.
func NewPureEfficiency(kind model.Kind) Efficiency {
	return Efficiency{name: PureEfficiencyName, kind: &kind}
}

// NewMixedEfficiency returns the efficiency strategy over the merged pool.
func NewMixedEfficiency() Efficiency {
	return Efficiency{name: MixedEfficiencyName}
}

func (e Efficiency) Name() string { return e.name }

// Kind returns the kind the pool is restricted to, if any.
func (e Efficiency) Kind() (model.Kind, bool) {
	if e.kind == nil {
		return 0, false
	}
	return *e.kind, true
}

func (e Efficiency) Accepts(r model.TransportRequest) bool {
	return e.kind == nil || r.Kind == *e.kind
}

func (e Efficiency) Rank(waiting []model.TransportRequest) []model.TransportRequest {
	return rankStable(waiting, byPriority)
}

func (e Efficiency) NextStation(s Snapshot) (model.StationID, bool) {
	drops := dropoffStations(s)
	if s.Full() && len(drops) > 0 {
		return s.Network.Nearest(s.Current, drops)
	}
	return s.Network.Nearest(s.Current, append(origins(s, pickupTargets(s)), drops...))
}
