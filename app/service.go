// Package app wires the planner, its stores and its outputs into the
// long-running service.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/kilianp07/airlift/api"
	apihistory "github.com/kilianp07/airlift/api/history"
	apikpi "github.com/kilianp07/airlift/api/kpi"
	"github.com/kilianp07/airlift/api/plans"
	"github.com/kilianp07/airlift/config"
	"github.com/kilianp07/airlift/core/dispatch"
	"github.com/kilianp07/airlift/core/events"
	"github.com/kilianp07/airlift/core/history"
	coremetrics "github.com/kilianp07/airlift/core/metrics"
	corekpi "github.com/kilianp07/airlift/core/metrics/kpi"
	"github.com/kilianp07/airlift/core/planner"
	"github.com/kilianp07/airlift/infra/logger"
	"github.com/kilianp07/airlift/infra/metrics"
	"github.com/kilianp07/airlift/infra/mqtt"
	"github.com/kilianp07/airlift/internal/eventbus"
)

// Service serves the planning API and forwards computed plans to the
// metrics sinks and the MQTT broker.
type Service struct {
	cfg       *config.Config
	Runner    *planner.Runner
	History   history.Store
	bus       *eventbus.TypedBus[events.PlanComputed]
	sink      coremetrics.PlanSink
	publisher mqtt.PlanPublisher
	kpi       corekpi.Store
	handler   http.Handler
	log       logger.Logger
	done      []<-chan struct{}
}

// Option customises a Service.
type Option func(*Service)

// WithPublisher replaces the broker publisher built from the configuration.
func WithPublisher(p mqtt.PlanPublisher) Option { return func(s *Service) { s.publisher = p } }

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	s := &Service{cfg: cfg, log: logger.New("service")}
	for _, o := range opts {
		o(s)
	}

	sink, err := coremetrics.NewPlanSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, err
	}
	s.sink = sink
	s.kpi = findKPIStore(sink)

	strategies, err := dispatch.NewStrategies(cfg.Strategies)
	if err != nil {
		return nil, err
	}
	s.bus = eventbus.NewTyped[events.PlanComputed]()
	s.Runner, err = planner.NewRunner(cfg.Engine, strategies,
		planner.WithBus(s.bus),
		planner.WithLogger(logger.New("planner")),
	)
	if err != nil {
		return nil, err
	}

	store, err := history.NewStore(cfg.History)
	if err != nil {
		return nil, err
	}
	var rec coremetrics.HistoryRecorder
	if r, ok := sink.(coremetrics.HistoryRecorder); ok {
		rec = r
	}
	s.History = history.NewRecorded(store, cfg.History.Type, rec, logger.New("history"))

	if s.publisher == nil && cfg.MQTTEnabled() {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			_ = s.History.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		s.publisher = pub
	}

	planHandler, err := plans.NewHandler(s.Runner, cfg.Server.CacheSize,
		plans.WithHistory(s.History),
		plans.WithLogger(logger.New("api")),
	)
	if err != nil {
		_ = s.History.Close()
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/api/plans", planHandler)
	mux.Handle("/api/strategies", planHandler)
	historyHandler := apihistory.NewHandler(s.History)
	mux.Handle("/api/history", historyHandler)
	mux.Handle("/api/history/", historyHandler)
	if s.kpi != nil {
		mux.Handle("/api/kpi", apikpi.NewHandler(s.kpi))
	}
	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	root.Handle("/", api.RequireBearer(cfg.Server.Token, mux))
	s.handler = root
	return s, nil
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler { return s.handler }

// Start launches the plan consumers. They stop when ctx is done.
func (s *Service) Start(ctx context.Context) {
	s.done = append(s.done, metrics.StartPlanCollector(ctx, s.bus, s.sink, logger.New("collector")))
	if s.publisher != nil {
		s.done = append(s.done, mqtt.StartForwarder(ctx, s.bus, s.publisher, logger.New("forwarder")))
	}
}

// Run starts the consumers and serves the API until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Service) Serve(ctx context.Context, ln net.Listener) error {
	s.Start(ctx)
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr, nil); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	srv := &http.Server{Handler: s.handler, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api server shutdown: %v", err)
		}
		cancel()
	}()
	s.log.Infow("api listening", map[string]any{"addr": ln.Addr().String(), "strategies": s.Runner.Strategies()})
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops the consumers and releases the stores and connections.
func (s *Service) Close() error {
	s.bus.Close()
	for _, d := range s.done {
		<-d
	}
	if d, ok := s.publisher.(interface{ Disconnect() }); ok {
		d.Disconnect()
	}
	closeSinks(s.sink)
	if c, ok := s.kpi.(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.log.Warnf("close kpi store: %v", err)
		}
	}
	return s.History.Close()
}

func findKPIStore(sink coremetrics.PlanSink) corekpi.Store {
	switch v := sink.(type) {
	case interface{ Store() corekpi.Store }:
		return v.Store()
	case *coremetrics.MultiSink:
		for _, inner := range v.Sinks {
			if st := findKPIStore(inner); st != nil {
				return st
			}
		}
	}
	return nil
}

func closeSinks(sink coremetrics.PlanSink) {
	switch v := sink.(type) {
	case interface{ Close() }:
		v.Close()
	case *coremetrics.MultiSink:
		for _, inner := range v.Sinks {
			closeSinks(inner)
		}
	}
}
