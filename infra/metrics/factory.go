package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/airlift/core/factory"
	coremetrics "github.com/kilianp07/airlift/core/metrics"
	corekpi "github.com/kilianp07/airlift/core/metrics/kpi"
	"github.com/kilianp07/airlift/infra/kpi"
)

// init registers built-in metrics sinks.
func init() {
	_ = coremetrics.RegisterPlanSink("prometheus", func(map[string]any) (coremetrics.PlanSink, error) {
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterPlanSink("influx", func(conf map[string]any) (coremetrics.PlanSink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.URL == "" {
			return nil, fmt.Errorf("influx: url required")
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})

	_ = coremetrics.RegisterPlanSink("kpi", func(conf map[string]any) (coremetrics.PlanSink, error) {
		var c struct {
			Store string `json:"store"`
			Path  string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		var store corekpi.Store
		switch c.Store {
		case "", "memory":
			store = corekpi.NewMemoryStore()
		case "sqlite":
			if c.Path == "" {
				return nil, fmt.Errorf("kpi: path required for sqlite store")
			}
			s, err := kpi.NewSQLiteStore(c.Path)
			if err != nil {
				return nil, err
			}
			store = s
		default:
			return nil, fmt.Errorf("kpi: unknown store %q", c.Store)
		}
		return NewKPISink(store, prometheus.DefaultRegisterer)
	})
}
