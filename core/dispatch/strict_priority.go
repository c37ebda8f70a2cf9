package dispatch

import "github.com/kilianp07/airlift/core/model"

// StrictPriority serves requests one at a time in global priority order.
// It trades distance for a guaranteed service order.
type StrictPriority struct{}

// NewStrictPriority returns the strict priority strategy.
func NewStrictPriority() StrictPriority { return StrictPriority{} }

func (StrictPriority) Name() string { return StrictPriorityName }

func (StrictPriority) Rank(waiting []model.TransportRequest) []model.TransportRequest {
	return rankStable(waiting, byPriority)
}

// Admissible only lets the globally most urgent request board an empty cabin.
func (p StrictPriority) Admissible(s Snapshot, r model.TransportRequest) bool {
	if len(s.Aboard) > 0 || len(s.Waiting) == 0 {
		return false
	}
	return p.Rank(s.Waiting)[0] == r
}

func (p StrictPriority) NextStation(s Snapshot) (model.StationID, bool) {
	if len(s.Aboard) > 0 {
		if dest := s.Aboard[0].Destination; dest != s.Current {
			return dest, true
		}
		return 0, false
	}
	if len(s.Waiting) == 0 {
		return 0, false
	}
	top := p.Rank(s.Waiting)[0]
	if top.Origin == s.Current {
		return 0, false
	}
	return top.Origin, true
}
