package model

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// StationID identifies a station of the network. Base is always 0.
type StationID int

// Base is the home station the aircraft starts from and returns to.
const Base StationID = 0

func (s StationID) String() string {
	if s == Base {
		return "Base"
	}
	return fmt.Sprintf("Station %d", int(s))
}

// Station is a named point on the field map.
type Station struct {
	ID   StationID `json:"id" yaml:"id"`
	Name string    `json:"name" yaml:"name"`
	X    float64   `json:"x" yaml:"x"`
	Y    float64   `json:"y" yaml:"y"`
}

// Network is a read-only lookup table of stations and their pairwise
// distances. It is safe for concurrent use once built.
type Network struct {
	stations []Station
	index    map[StationID]int
	dist     [][]float64
	maxID    StationID
}

// NewNetwork builds the distance table for the given stations. Station ids
// must be unique, non-negative and include the base.
func NewNetwork(stations []Station) (*Network, error) {
	if len(stations) == 0 {
		return nil, fmt.Errorf("network: no stations")
	}
	sorted := make([]Station, len(stations))
	copy(sorted, stations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	n := &Network{stations: sorted, index: make(map[StationID]int, len(sorted))}
	for i, s := range sorted {
		if s.ID < 0 {
			return nil, fmt.Errorf("network: negative station id %d", s.ID)
		}
		if !Finite(s.X) || !Finite(s.Y) {
			return nil, fmt.Errorf("network: station %d has non-finite coordinates", s.ID)
		}
		if _, dup := n.index[s.ID]; dup {
			return nil, fmt.Errorf("network: duplicate station id %d", s.ID)
		}
		n.index[s.ID] = i
		if s.ID > n.maxID {
			n.maxID = s.ID
		}
	}
	if _, ok := n.index[Base]; !ok {
		return nil, fmt.Errorf("network: base station %d missing", Base)
	}

	n.dist = make([][]float64, len(sorted))
	for i := range sorted {
		n.dist[i] = make([]float64, len(sorted))
	}
	for i := range sorted {
		pi := r2.Vec{X: sorted[i].X, Y: sorted[i].Y}
		for j := i + 1; j < len(sorted); j++ {
			pj := r2.Vec{X: sorted[j].X, Y: sorted[j].Y}
			d := math.Round(r2.Norm(r2.Sub(pi, pj)))
			// Distinct stations are never zero apart.
			if d == 0 {
				d = 1
			}
			n.dist[i][j] = d
			n.dist[j][i] = d
		}
	}
	return n, nil
}

// MustNetwork is like NewNetwork but panics on error. Intended for fixed maps.
func MustNetwork(stations []Station) *Network {
	n, err := NewNetwork(stations)
	if err != nil {
		panic(err)
	}
	return n
}

// Contains reports whether id is a station of the network.
func (n *Network) Contains(id StationID) bool {
	_, ok := n.index[id]
	return ok
}

// NumStations returns the highest station id. Valid ids lie in [0, NumStations].
func (n *Network) NumStations() int { return int(n.maxID) }

// Stations returns a copy of the stations ordered by id.
func (n *Network) Stations() []Station {
	out := make([]Station, len(n.stations))
	copy(out, n.stations)
	return out
}

// Station returns the station with the given id.
func (n *Network) Station(id StationID) (Station, bool) {
	i, ok := n.index[id]
	if !ok {
		return Station{}, false
	}
	return n.stations[i], true
}

// Distance returns the rounded Euclidean distance between a and b. Unknown
// stations are infinitely far away.
func (n *Network) Distance(a, b StationID) float64 {
	i, ok := n.index[a]
	if !ok {
		return math.Inf(1)
	}
	j, ok := n.index[b]
	if !ok {
		return math.Inf(1)
	}
	return n.dist[i][j]
}

// Nearest returns the candidate closest to from, breaking ties by ascending
// station id. Unknown candidates are ignored.
func (n *Network) Nearest(from StationID, candidates []StationID) (StationID, bool) {
	best := StationID(-1)
	bestDist := math.Inf(1)
	for _, c := range candidates {
		if !n.Contains(c) {
			continue
		}
		d := n.Distance(from, c)
		if best < 0 || d < bestDist || (d == bestDist && c < best) {
			best = c
			bestDist = d
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}
