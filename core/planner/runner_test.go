package planner

import (
	"context"
	"sync"
	"testing"

	"github.com/brunoga/deep"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/airlift/core/dispatch"
	"github.com/kilianp07/airlift/core/events"
	"github.com/kilianp07/airlift/core/factory"
	"github.com/kilianp07/airlift/core/metrics"
	"github.com/kilianp07/airlift/core/model"
	"github.com/kilianp07/airlift/internal/eventbus"
)

func testScenario() model.Scenario {
	pax := func(id string, qty int, shift model.Shift, from, to model.StationID) model.TransportRequest {
		return model.TransportRequest{ID: id, Kind: model.KindPassenger, Shift: shift, Priority: 1,
			Origin: from, Destination: to, UnitWeight: 70, Quantity: qty}
	}
	cargo := func(id string, w float64, shift model.Shift, from, to model.StationID) model.TransportRequest {
		return model.TransportRequest{ID: id, Kind: model.KindCargo, Shift: shift, Priority: 2,
			Origin: from, Destination: to, UnitWeight: w, Quantity: 1}
	}
	return model.Scenario{
		ID:   "monday",
		Name: "Monday",
		Stations: []model.Station{
			{ID: 0, Name: "Base", X: 0, Y: 0},
			{ID: 1, Name: "North", X: 0, Y: 10},
			{ID: 2, Name: "East", X: 10, Y: 0},
			{ID: 3, Name: "Ridge", X: 30, Y: 40},
		},
		Vehicle: model.VehicleConfig{SeatCapacity: 4, MaxPayloadWeight: 500},
		Requests: []model.TransportRequest{
			pax("p1", 2, model.ShiftMorning, 1, 3),
			pax("p2", 3, model.ShiftMorning, 0, 2),
			cargo("c1", 200, model.ShiftMorning, 2, 0),
			pax("p3", 1, model.ShiftAfternoon, 3, 0),
			cargo("c2", 450, model.ShiftAfternoon, 0, 1),
			pax("big", 6, model.ShiftAfternoon, 1, 0),
		},
	}
}

func newTestRunner(t *testing.T, opts ...Option) *Runner {
	t.Helper()
	ss, err := dispatch.NewStrategies(nil)
	require.NoError(t, err)
	opts = append([]Option{WithRegisterer(prometheus.NewRegistry())}, opts...)
	r, err := NewRunner(Config{Concurrency: 3, Verify: true}, ss, opts...)
	require.NoError(t, err)
	return r
}

type captureSink struct {
	mu     sync.Mutex
	events []metrics.PlanEvent
}

func (c *captureSink) RecordPlan(ev metrics.PlanEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func TestRunner_PlansEveryStrategyAndShift(t *testing.T) {
	r := newTestRunner(t)
	sc := testScenario()
	before := deep.MustCopy(sc.Requests)

	set, err := r.Run(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, "monday", set.ScenarioID)
	assert.Equal(t, sc.Fingerprint(), set.Fingerprint)
	require.Len(t, set.Plans, 12)
	assert.Equal(t, before, sc.Requests)

	network := model.MustNetwork(sc.Stations)
	names := r.Strategies()
	for i, p := range set.Plans {
		s, err := dispatch.NewStrategy(factoryConfig(names[i/2]))
		require.NoError(t, err)
		shift := model.Shifts()[i%2]
		assert.Equal(t, names[i/2], p.Strategy)
		assert.Equal(t, shift, p.Shift)
		assert.Equal(t, dispatch.Simulate(sc.Requests, sc.Vehicle, network, s, shift), p)
	}

	p, ok := set.Plan(dispatch.SegmentedName, model.ShiftAfternoon)
	require.True(t, ok)
	require.Len(t, p.Rejected, 1)
	assert.Equal(t, "big", p.Rejected[0].Request.ID)
	_, ok = set.Plan("teleport", model.ShiftMorning)
	assert.False(t, ok)
}

func TestRunner_SinkBusAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink := &captureSink{}
	bus := eventbus.NewTypedBuffered[events.PlanComputed](32)
	defer bus.Close()
	sub := bus.Subscribe()

	r := newTestRunner(t, WithRegisterer(reg), WithSink(sink), WithBus(bus))
	set, err := r.Run(context.Background(), testScenario())
	require.NoError(t, err)

	assert.Len(t, sink.events, len(set.Plans))
	for _, ev := range sink.events {
		assert.Equal(t, "monday", ev.ScenarioID)
		assert.Equal(t, set.Fingerprint, ev.Fingerprint)
	}
	for range set.Plans {
		ev := <-sub
		assert.Equal(t, set.Fingerprint, ev.Fingerprint)
	}

	n, err := testutil.GatherAndCount(reg, "airlift_simulation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	n, err = testutil.GatherAndCount(reg, "airlift_plans_rejected_requests_total")
	require.NoError(t, err)
	assert.Positive(t, n)

	_, err = NewRunner(Config{}, []dispatch.Strategy{dispatch.NewPassengerFirst()}, WithRegisterer(reg))
	assert.NoError(t, err, "collectors are shared between runners")
}

func TestRunner_Shifts(t *testing.T) {
	ss := []dispatch.Strategy{dispatch.NewPassengerFirst()}
	r, err := NewRunner(Config{Shifts: []model.Shift{model.ShiftAfternoon}}, ss, WithRegisterer(prometheus.NewRegistry()))
	require.NoError(t, err)
	set, err := r.Run(context.Background(), testScenario())
	require.NoError(t, err)
	require.Len(t, set.Plans, 1)
	assert.Equal(t, model.ShiftAfternoon, set.Plans[0].Shift)
}

func TestRunner_Errors(t *testing.T) {
	_, err := NewRunner(Config{}, nil)
	assert.Error(t, err)
	_, err = NewRunner(Config{Engine: dispatch.Config{MaxIterations: -1}}, []dispatch.Strategy{dispatch.NewCargoFirst()},
		WithRegisterer(prometheus.NewRegistry()))
	assert.Error(t, err)

	r := newTestRunner(t)
	sc := testScenario()
	sc.Stations = nil
	_, err = r.Run(context.Background(), sc)
	assert.Error(t, err)

	sc = testScenario()
	sc.Vehicle.SeatCapacity = 0
	_, err = r.Run(context.Background(), sc)
	assert.ErrorContains(t, err, "vehicle")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx, testScenario())
	assert.ErrorIs(t, err, context.Canceled)
}

func factoryConfig(name string) factory.ModuleConfig { return factory.ModuleConfig{Type: name} }
