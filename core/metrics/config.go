package metrics

import "github.com/kilianp07/airlift/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks" yaml:"sinks"`
	// PrometheusAddr, when set, serves /metrics on its own listener.
	PrometheusAddr string `json:"prometheus_addr" yaml:"prometheus_addr"`
}
