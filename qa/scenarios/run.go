package scenarios

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/airlift/core/dispatch"
	"github.com/kilianp07/airlift/core/events"
	"github.com/kilianp07/airlift/core/factory"
	"github.com/kilianp07/airlift/core/model"
	"github.com/kilianp07/airlift/core/planner"
	"github.com/kilianp07/airlift/infra/logger"
	"github.com/kilianp07/airlift/infra/metrics"
	"github.com/kilianp07/airlift/infra/mqtt"
	"github.com/kilianp07/airlift/internal/eventbus"
	"github.com/kilianp07/airlift/scenario"
)

// RunCase plans the case scenario with every listed strategy, checks the
// plans against the expectations and follows them through the metrics and
// publishing pipeline.
func RunCase(t *testing.T, c *Case) {
	t.Helper()
	sc := c.Scenario
	scenario.Normalize(&sc)
	require.NoError(t, scenario.Validate(sc))

	cfgs := make([]factory.ModuleConfig, len(c.Strategies))
	for i, s := range c.Strategies {
		cfgs[i] = factory.ModuleConfig{Type: s}
	}
	strategies, err := dispatch.NewStrategies(cfgs)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	pub := mqtt.NewMockPublisher()
	bus := eventbus.NewTyped[events.PlanComputed]()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	metrics.StartPlanCollector(ctx, bus, sink, logger.NopLogger{})
	mqtt.StartForwarder(ctx, bus, pub, logger.NopLogger{})

	runner, err := planner.NewRunner(planner.Config{
		Engine: dispatch.Config{SplitGroups: c.SplitGroups, MaxIterations: c.MaxIterations},
		Verify: true,
	}, strategies, planner.WithBus(bus), planner.WithRegisterer(reg), planner.WithLogger(logger.NopLogger{}))
	require.NoError(t, err)

	set, err := runner.Run(ctx, sc)
	require.NoError(t, err)

	for shift, want := range c.Expected {
		for _, name := range c.Strategies {
			p, ok := set.Plan(name, shift)
			require.True(t, ok, "%s/%s missing", name, shift)
			assert.Equal(t, want.Outcome, p.Outcome, "%s/%s outcome", name, shift)
			assert.Equal(t, want.Delivered, p.Metrics.UnitsDelivered, "%s/%s delivered", name, shift)
			assert.ElementsMatch(t, want.Rejected, ids(p.Rejected), "%s/%s rejected", name, shift)
			assert.ElementsMatch(t, want.Undelivered, ids(p.Undelivered), "%s/%s undelivered", name, shift)
		}
	}

	require.Eventually(t, func() bool { return pub.Published() == len(set.Plans) },
		2*time.Second, 10*time.Millisecond, "every plan is published")
	require.Eventually(t, func() bool {
		n, err := testutil.GatherAndCount(reg, "airlift_plans_total")
		return err == nil && n > 0
	}, 2*time.Second, 10*time.Millisecond, "plans are recorded")
}

func ids(rs []model.Rejection) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		if !slices.Contains(out, r.Request.ID) {
			out = append(out, r.Request.ID)
		}
	}
	return out
}
