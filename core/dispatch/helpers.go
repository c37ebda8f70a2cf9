package dispatch

import (
	"cmp"
	"math"
	"slices"

	"github.com/kilianp07/airlift/core/model"
)

// pickupTargets returns the waiting requests, away from the current station,
// that could board on arrival.
func pickupTargets(s Snapshot) []model.TransportRequest {
	var out []model.TransportRequest
	for _, r := range s.Waiting {
		if r.Origin != s.Current && s.CanBoard(r) {
			out = append(out, r)
		}
	}
	return out
}

// dropoffStations returns the distinct destinations of the load aboard,
// excluding the current station.
func dropoffStations(s Snapshot) []model.StationID {
	var out []model.StationID
	for _, r := range s.Aboard {
		if r.Destination != s.Current && !slices.Contains(out, r.Destination) {
			out = append(out, r.Destination)
		}
	}
	return out
}

// origins returns the distinct origins of reqs, excluding the current station.
func origins(s Snapshot, reqs []model.TransportRequest) []model.StationID {
	var out []model.StationID
	for _, r := range reqs {
		if r.Origin != s.Current && !slices.Contains(out, r.Origin) {
			out = append(out, r.Origin)
		}
	}
	return out
}

func byPriority(a, b model.TransportRequest) int {
	return cmp.Compare(a.Priority, b.Priority)
}

// kindThenPriority orders the preferred kind first, then by priority.
func kindThenPriority(first model.Kind) func(a, b model.TransportRequest) int {
	return func(a, b model.TransportRequest) int {
		if a.Kind != b.Kind {
			if a.Kind == first {
				return -1
			}
			if b.Kind == first {
				return 1
			}
		}
		return byPriority(a, b)
	}
}

// rankStable sorts a copy of reqs, keeping input order among equals.
func rankStable(reqs []model.TransportRequest, order func(a, b model.TransportRequest) int) []model.TransportRequest {
	out := slices.Clone(reqs)
	slices.SortStableFunc(out, order)
	return out
}

// fittingUnits is the largest portion of a passenger group that fits in the
// remaining seats and weight.
func fittingUnits(r model.TransportRequest, seatsLeft int, weightLeft float64) int {
	n := min(seatsLeft, r.Quantity)
	if r.UnitWeight > 0 {
		byWeight := int(math.Floor(weightLeft / r.UnitWeight))
		n = min(n, byWeight)
	}
	return max(n, 0)
}
