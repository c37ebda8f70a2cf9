package dispatch

import (
	"fmt"

	"github.com/kilianp07/airlift/core/model"
)

// DefaultLoadThreshold is the seat occupancy above which Segmented stops
// collecting and starts delivering.
const DefaultLoadThreshold = 0.75

// Segmented collects where demand is densest until the cabin is mostly
// full, then delivers.
type Segmented struct {
	threshold float64
}

// NewSegmented returns a Segmented strategy. A threshold outside (0,1] falls
// back to DefaultLoadThreshold.
func NewSegmented(threshold float64) Segmented {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultLoadThreshold
	}
	return Segmented{threshold: threshold}
}

func (g Segmented) Name() string { return SegmentedName }

// Threshold returns the seat occupancy ratio that triggers deliveries.
func (g Segmented) Threshold() float64 { return g.threshold }

func (g Segmented) String() string { return fmt.Sprintf("%s(%.2f)", SegmentedName, g.threshold) }

func (g Segmented) Rank(waiting []model.TransportRequest) []model.TransportRequest {
	return rankStable(waiting, byPriority)
}

func (g Segmented) NextStation(s Snapshot) (model.StationID, bool) {
	drops := dropoffStations(s)
	if float64(s.Seats) >= g.threshold*float64(s.Vehicle.SeatCapacity) && len(drops) > 0 {
		return s.Network.Nearest(s.Current, drops)
	}

	counts := make(map[model.StationID]int)
	for _, r := range pickupTargets(s) {
		counts[r.Origin]++
	}
	best, bestCount := model.StationID(-1), 0
	for st, n := range counts {
		switch {
		case n > bestCount:
			best, bestCount = st, n
		case n == bestCount:
			if closer(s, st, best) {
				best = st
			}
		}
	}
	if best >= 0 {
		return best, true
	}
	return s.Network.Nearest(s.Current, drops)
}

// closer reports whether a is nearer than b from the current station, with
// the lower id winning ties.
func closer(s Snapshot, a, b model.StationID) bool {
	da, db := s.Network.Distance(s.Current, a), s.Network.Distance(s.Current, b)
	if da != db {
		return da < db
	}
	return a < b
}
