package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/airlift/core/model"
)

// Load reads a YAML or JSON scenario file, fills the defaults and validates it.
func Load(path string) (model.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Scenario{}, err
	}
	sc, err := Parse(data)
	if err != nil {
		return model.Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a YAML or JSON document, fills the defaults and validates
// the result.
func Parse(data []byte) (model.Scenario, error) {
	var sc model.Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return model.Scenario{}, fmt.Errorf("decode scenario: %w", err)
	}
	Normalize(&sc)
	if err := Validate(sc); err != nil {
		return model.Scenario{}, err
	}
	return sc, nil
}

// Normalize fills the parts of a scenario that may be omitted: the station
// map and the unit weight of cargo items declared with a quantity of zero.
func Normalize(sc *model.Scenario) {
	if len(sc.Stations) == 0 {
		sc.Stations = DefaultStations()
	}
	for i := range sc.Requests {
		r := &sc.Requests[i]
		if r.Kind == model.KindCargo && r.Quantity == 0 {
			r.Quantity = 1
		}
	}
}
