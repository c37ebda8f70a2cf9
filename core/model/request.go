package model

import (
	"fmt"
	"strings"
)

// Kind distinguishes people from freight. The two never share a flight leg.
type Kind int

const (
	KindPassenger Kind = iota
	KindCargo
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindPassenger:
		return "passenger"
	case KindCargo:
		return "cargo"
	default:
		return "unknown"
	}
}

// ParseKind converts a textual kind into a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "passenger", "passengers", "pax":
		return KindPassenger, nil
	case "cargo", "freight":
		return KindCargo, nil
	default:
		return 0, fmt.Errorf("unknown kind %q", s)
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Shift is the half-day a request belongs to.
type Shift int

const (
	ShiftMorning Shift = iota
	ShiftAfternoon
)

// Shifts lists every shift in planning order.
func Shifts() []Shift { return []Shift{ShiftMorning, ShiftAfternoon} }

// String returns a human-readable representation of the shift.
func (s Shift) String() string {
	switch s {
	case ShiftMorning:
		return "morning"
	case ShiftAfternoon:
		return "afternoon"
	default:
		return "unknown"
	}
}

// ParseShift converts a textual shift into a Shift.
func ParseShift(s string) (Shift, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "morning", "am":
		return ShiftMorning, nil
	case "afternoon", "pm":
		return ShiftAfternoon, nil
	default:
		return 0, fmt.Errorf("unknown shift %q", s)
	}
}

func (s Shift) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Shift) UnmarshalText(b []byte) error {
	v, err := ParseShift(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Priority bounds. 1 is the most urgent.
const (
	MinPriority = 1
	MaxPriority = 5
)

// TransportRequest is a unit of demand: a passenger group or a cargo item to
// move from Origin to Destination during a shift.
type TransportRequest struct {
	ID          string    `json:"id" yaml:"id"`
	Area        string    `json:"area,omitempty" yaml:"area,omitempty"`
	Kind        Kind      `json:"kind" yaml:"kind"`
	Shift       Shift     `json:"shift" yaml:"shift"`
	Priority    int       `json:"priority" yaml:"priority"`
	Origin      StationID `json:"origin" yaml:"origin"`
	Destination StationID `json:"destination" yaml:"destination"`
	UnitWeight  float64   `json:"unit_weight" yaml:"unit_weight"`
	Quantity    int       `json:"quantity" yaml:"quantity"`
}

// SeatCost is the number of capacity units the request occupies: the group
// size for passengers, one for cargo.
func (r TransportRequest) SeatCost() int {
	if r.Kind == KindCargo {
		return 1
	}
	return r.Quantity
}

// Weight is the total mass of the request.
func (r TransportRequest) Weight() float64 {
	if r.Kind == KindCargo {
		return r.UnitWeight
	}
	return r.UnitWeight * float64(r.Quantity)
}

// Splittable reports whether the request may board in several portions.
func (r TransportRequest) Splittable() bool {
	return r.Kind == KindPassenger && r.Quantity > 1
}

// Split returns the first n units of a passenger group and the remainder.
// n is clamped to [0, Quantity].
func (r TransportRequest) Split(n int) (head, rest TransportRequest) {
	if n < 0 {
		n = 0
	}
	if n > r.Quantity {
		n = r.Quantity
	}
	head, rest = r, r
	head.Quantity = n
	rest.Quantity = r.Quantity - n
	return head, rest
}

func (r TransportRequest) String() string {
	return fmt.Sprintf("%s(%s x%d p%d %d->%d)", r.ID, r.Kind, r.Quantity, r.Priority, r.Origin, r.Destination)
}
