package metrics

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/airlift/core/factory"
)

type recordSink struct {
	plans   int
	history int
	err     error
}

func (r *recordSink) RecordPlan(PlanEvent) error {
	r.plans++
	return r.err
}

func (r *recordSink) RecordHistory(HistoryEvent) error {
	r.history++
	return nil
}

type planOnly struct{ plans int }

func (p *planOnly) RecordPlan(PlanEvent) error {
	p.plans++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &planOnly{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordPlan(PlanEvent{}); err != nil {
		t.Fatalf("record plan: %v", err)
	}
	if err := m.RecordHistory(HistoryEvent{Action: HistorySaved}); err != nil {
		t.Fatalf("record history: %v", err)
	}
	if s1.plans != 1 || s2.plans != 1 {
		t.Fatalf("plans not forwarded: %d %d", s1.plans, s2.plans)
	}
	if s1.history != 1 {
		t.Fatalf("history not forwarded")
	}
}

func TestMultiSinkStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	s1 := &recordSink{err: boom}
	s2 := &planOnly{}
	if err := NewMultiSink(s1, s2).RecordPlan(PlanEvent{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom got %v", err)
	}
	if s2.plans != 0 {
		t.Fatalf("second sink should not be reached")
	}
}

func TestNewPlanSink(t *testing.T) {
	s, err := NewPlanSink(nil)
	if err != nil {
		t.Fatalf("create default: %v", err)
	}
	if _, ok := s.(NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}

	data := "sinks:\n  - type: nop\n  - type: nop\n"
	var cfg Config
	if err := yaml.Unmarshal([]byte(data), &cfg); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	s, err = NewPlanSink(cfg.Sinks)
	if err != nil {
		t.Fatalf("create multi: %v", err)
	}
	m, ok := s.(*MultiSink)
	if !ok || len(m.Sinks) != 2 {
		t.Fatalf("expected MultiSink with 2 sinks, got %T", s)
	}
}

func TestNewPlanSinkUnknown(t *testing.T) {
	var cfg Config
	if err := json.Unmarshal([]byte(`{"sinks":[{"type":"missing"}]}`), &cfg); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if _, err := NewPlanSink(cfg.Sinks); err == nil {
		t.Fatalf("expected error for unknown type")
	}
	if _, err := NewPlanSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "missing"}}); err == nil {
		t.Fatalf("expected error for unknown type in list")
	}
}
