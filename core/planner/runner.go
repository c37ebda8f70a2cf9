package planner

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/brunoga/deep"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/airlift/core/dispatch"
	"github.com/kilianp07/airlift/core/events"
	"github.com/kilianp07/airlift/core/logger"
	"github.com/kilianp07/airlift/core/metrics"
	"github.com/kilianp07/airlift/core/model"
	"github.com/kilianp07/airlift/core/replay"
	"github.com/kilianp07/airlift/internal/eventbus"
)

// Config defines runner settings.
type Config struct {
	Engine dispatch.Config `json:"engine"`
	// Concurrency bounds the simulations running at once. Zero uses the
	// number of CPUs.
	Concurrency int `json:"concurrency"`
	// Verify replays every plan and fails the run on the first violation.
	Verify bool `json:"verify"`
	// Shifts restricts the planned shifts. Empty plans every shift.
	Shifts []model.Shift `json:"shifts"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	c.Engine.SetDefaults()
	if c.Concurrency <= 0 {
		c.Concurrency = runtime.NumCPU()
	}
	if len(c.Shifts) == 0 {
		c.Shifts = model.Shifts()
	}
}

// PlanSet holds the plans of one scenario, ordered by strategy then shift.
type PlanSet struct {
	ScenarioID  string               `json:"scenario_id,omitempty"`
	Fingerprint uint64               `json:"fingerprint"`
	Plans       []model.DispatchPlan `json:"plans"`
}

// Plan returns the plan computed for strategy and shift.
func (s PlanSet) Plan(strategy string, shift model.Shift) (model.DispatchPlan, bool) {
	for _, p := range s.Plans {
		if p.Strategy == strategy && p.Shift == shift {
			return p, true
		}
	}
	return model.DispatchPlan{}, false
}

// Runner computes a plan per strategy and shift.
type Runner struct {
	cfg        Config
	strategies []dispatch.Strategy
	sink       metrics.PlanSink
	bus        *eventbus.TypedBus[events.PlanComputed]
	log        logger.Logger
	reg        prometheus.Registerer
	metrics    *runnerMetrics
	now        func() time.Time
}

// Option customises a Runner.
type Option func(*Runner)

// WithSink records every plan on s.
func WithSink(s metrics.PlanSink) Option { return func(r *Runner) { r.sink = s } }

// WithBus publishes a PlanComputed event per plan on b.
func WithBus(b *eventbus.TypedBus[events.PlanComputed]) Option {
	return func(r *Runner) { r.bus = b }
}

// WithLogger sets the runner logger.
func WithLogger(l logger.Logger) Option { return func(r *Runner) { r.log = l } }

// WithRegisterer registers the runner collectors on reg instead of the
// default Prometheus registerer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(r *Runner) { r.reg = reg }
}

// NewRunner builds a runner for the given strategies.
func NewRunner(cfg Config, strategies []dispatch.Strategy, opts ...Option) (*Runner, error) {
	if len(strategies) == 0 {
		return nil, fmt.Errorf("planner: no strategy")
	}
	cfg.SetDefaults()
	if err := cfg.Engine.Validate(); err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}
	r := &Runner{cfg: cfg, strategies: strategies, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	r.log = logger.OrNop(r.log)
	m, err := newRunnerMetrics(r.reg)
	if err != nil {
		return nil, fmt.Errorf("planner metrics: %w", err)
	}
	r.metrics = m
	return r, nil
}

// Strategies returns the names of the runner strategies in run order.
func (r *Runner) Strategies() []string {
	out := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		out[i] = s.Name()
	}
	return out
}

// Run plans the scenario. Cancelling ctx stops jobs that have not started;
// running simulations finish and their plans are discarded.
func (r *Runner) Run(ctx context.Context, sc model.Scenario) (PlanSet, error) {
	network, err := model.NewNetwork(sc.Stations)
	if err != nil {
		return PlanSet{}, err
	}
	if err := sc.Vehicle.Validate(); err != nil {
		return PlanSet{}, fmt.Errorf("vehicle: %w", err)
	}

	fp := sc.Fingerprint()
	shifts := r.cfg.Shifts
	plans := make([]model.DispatchPlan, len(r.strategies)*len(shifts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for i, s := range r.strategies {
		for j, shift := range shifts {
			idx := i*len(shifts) + j
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				p, err := r.simulate(sc, network, s, shift)
				if err != nil {
					return err
				}
				plans[idx] = p.Plan
				r.emit(sc.ID, fp, p)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return PlanSet{}, err
	}
	if err := ctx.Err(); err != nil {
		return PlanSet{}, err
	}
	r.log.Infow("scenario planned", map[string]any{
		"scenario":    sc.ID,
		"fingerprint": fmt.Sprintf("%016x", fp),
		"plans":       len(plans),
	})
	return PlanSet{ScenarioID: sc.ID, Fingerprint: fp, Plans: plans}, nil
}

type timedPlan struct {
	Plan     model.DispatchPlan
	Duration time.Duration
}

func (r *Runner) simulate(sc model.Scenario, network *model.Network, s dispatch.Strategy, shift model.Shift) (timedPlan, error) {
	reqs := deep.MustCopy(sc.Requests)
	start := r.now()
	p := dispatch.Simulate(reqs, sc.Vehicle, network, s, shift, dispatch.WithConfig(r.cfg.Engine))
	d := r.now().Sub(start)
	if r.cfg.Verify {
		if err := replay.Verify(p, sc.Vehicle); err != nil {
			return timedPlan{}, fmt.Errorf("verify %s/%s: %w", s.Name(), shift, err)
		}
	}
	r.metrics.observe(p, d)
	r.log.Debugw("plan computed", map[string]any{
		"strategy": p.Strategy,
		"shift":    p.Shift.String(),
		"outcome":  string(p.Outcome),
		"distance": p.Metrics.TotalDistance,
		"legs":     len(p.Legs),
	})
	return timedPlan{Plan: p, Duration: d}, nil
}

func (r *Runner) emit(scenarioID string, fp uint64, p timedPlan) {
	at := r.now()
	if r.sink != nil {
		ev := metrics.PlanEvent{ScenarioID: scenarioID, Fingerprint: fp, Plan: p.Plan, Duration: p.Duration, Time: at}
		if err := r.sink.RecordPlan(ev); err != nil {
			r.log.Warnf("record plan %s: %v", p.Plan.ID, err)
		}
	}
	if r.bus != nil {
		r.bus.Publish(events.PlanComputed{ScenarioID: scenarioID, Fingerprint: fp, Plan: p.Plan, Duration: p.Duration, Time: at})
	}
}
