package dispatch

import (
	"fmt"
	"sort"

	"github.com/kilianp07/airlift/core/factory"
	"github.com/kilianp07/airlift/core/model"
)

// Built-in strategy names.
const (
	PassengerFirstName  = "passenger_first"
	CargoFirstName      = "cargo_first"
	PureEfficiencyName  = "pure_efficiency"
	SegmentedName       = "segmented"
	MixedEfficiencyName = "mixed_efficiency"
	StrictPriorityName  = "strict_priority"
)

var builtinOrder = []string{
	PassengerFirstName,
	CargoFirstName,
	PureEfficiencyName,
	SegmentedName,
	MixedEfficiencyName,
	StrictPriorityName,
}

var titles = map[string]string{
	PassengerFirstName:  "Passengers first",
	CargoFirstName:      "Cargo first",
	PureEfficiencyName:  "Pure route efficiency",
	SegmentedName:       "Segmented collection",
	MixedEfficiencyName: "Mixed route efficiency",
	StrictPriorityName:  "Strict priority",
}

var strategyRegistry = factory.NewRegistry[Strategy]()

func init() {
	_ = RegisterStrategy(PassengerFirstName, func(map[string]any) (Strategy, error) {
		return NewPassengerFirst(), nil
	})
	_ = RegisterStrategy(CargoFirstName, func(map[string]any) (Strategy, error) {
		return NewCargoFirst(), nil
	})
	_ = RegisterStrategy(PureEfficiencyName, func(conf map[string]any) (Strategy, error) {
		var c struct {
			Kind string `json:"kind"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		kind := model.KindPassenger
		if c.Kind != "" {
			k, err := model.ParseKind(c.Kind)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", PureEfficiencyName, err)
			}
			kind = k
		}
		return NewPureEfficiency(kind), nil
	})
	_ = RegisterStrategy(SegmentedName, func(conf map[string]any) (Strategy, error) {
		var c struct {
			LoadThreshold float64 `json:"load_threshold"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.LoadThreshold < 0 || c.LoadThreshold > 1 {
			return nil, fmt.Errorf("%s: load_threshold must be within [0,1], got %v", SegmentedName, c.LoadThreshold)
		}
		return NewSegmented(c.LoadThreshold), nil
	})
	_ = RegisterStrategy(MixedEfficiencyName, func(map[string]any) (Strategy, error) {
		return NewMixedEfficiency(), nil
	})
	_ = RegisterStrategy(StrictPriorityName, func(map[string]any) (Strategy, error) {
		return NewStrictPriority(), nil
	})
}

// RegisterStrategy adds a strategy factory identified by name.
func RegisterStrategy(name string, f factory.Factory[Strategy]) error {
	return strategyRegistry.Register(name, f)
}

// NewStrategy creates a Strategy from its module configuration.
func NewStrategy(cfg factory.ModuleConfig) (Strategy, error) {
	s, err := strategyRegistry.Create(cfg)
	if err != nil {
		return nil, fmt.Errorf("strategy: %w", err)
	}
	return s, nil
}

// NewStrategies creates every configured strategy, or all built-in ones
// with default settings when cfgs is empty.
func NewStrategies(cfgs []factory.ModuleConfig) ([]Strategy, error) {
	if len(cfgs) == 0 {
		cfgs = make([]factory.ModuleConfig, len(builtinOrder))
		for i, name := range builtinOrder {
			cfgs[i] = factory.ModuleConfig{Type: name}
		}
	}
	out := make([]Strategy, 0, len(cfgs))
	for _, c := range cfgs {
		s, err := NewStrategy(c)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Strategies lists the registered strategy names, built-ins first in their
// canonical order.
func Strategies() []string {
	names := strategyRegistry.Names()
	rank := make(map[string]int, len(builtinOrder))
	for i, n := range builtinOrder {
		rank[n] = i
	}
	sort.SliceStable(names, func(i, j int) bool {
		ri, iok := rank[names[i]]
		rj, jok := rank[names[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return names[i] < names[j]
		}
	})
	return names
}

// Title returns the human-readable title of a strategy.
func Title(name string) string {
	if t, ok := titles[name]; ok {
		return t
	}
	return name
}
