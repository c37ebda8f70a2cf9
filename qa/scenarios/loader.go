// Package scenarios runs planning QA cases described in YAML.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/airlift/core/model"
)

// Expected is what every listed strategy must produce for a shift.
type Expected struct {
	Outcome     model.Outcome `yaml:"outcome"`
	Delivered   int           `yaml:"delivered"`
	Rejected    []string      `yaml:"rejected,omitempty"`
	Undelivered []string      `yaml:"undelivered,omitempty"`
}

// Case is a scenario together with the plans it must yield.
type Case struct {
	Name          string                   `yaml:"name"`
	Description   string                   `yaml:"description,omitempty"`
	Strategies    []string                 `yaml:"strategies"`
	SplitGroups   bool                     `yaml:"split_groups,omitempty"`
	MaxIterations int                      `yaml:"max_iterations,omitempty"`
	Scenario      model.Scenario           `yaml:"scenario"`
	Expected      map[model.Shift]Expected `yaml:"expected"`
}

func Load(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Case
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
