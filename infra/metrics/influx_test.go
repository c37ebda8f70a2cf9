package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/airlift/core/metrics"
	"github.com/kilianp07/airlift/core/model"
)

func samplePlan() model.DispatchPlan {
	r := model.TransportRequest{ID: "r1", Kind: model.KindPassenger, Quantity: 2, UnitWeight: 70, Origin: 1, Destination: 0}
	return model.DispatchPlan{
		ID:       "plan-1",
		Strategy: "segmented",
		Shift:    model.ShiftMorning,
		Legs: []model.FlightLeg{
			{Kind: model.LegTravel, Station: 1, Distance: 10},
			{Kind: model.LegPickup, Station: 1, Items: []model.TransportRequest{r}},
			{Kind: model.LegTravel, Station: 0, From: 1, Distance: 10},
			{Kind: model.LegDropoff, Station: 0, Items: []model.TransportRequest{r}},
		},
		Metrics:    model.Metrics{TotalStops: 2, TotalLegs: 2, TotalDistance: 20, UnitsDelivered: 2, TotalWeightDelivered: 140, PeakPayloadRatio: 0.28},
		Rejected:   []model.Rejection{{Request: model.TransportRequest{ID: "x", Kind: model.KindCargo, Quantity: 1}, Reason: model.RejectWeight}},
		Outcome:    model.OutcomeComplete,
		Iterations: 3,
	}
}

func captureServer(t *testing.T) (*httptest.Server, func() []string) {
	t.Helper()
	var mu sync.Mutex
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, strings.TrimSpace(string(b)))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), bodies...)
	}
}

func TestInfluxSink_RecordPlan(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	ev := coremetrics.PlanEvent{ScenarioID: "sc1", Plan: samplePlan(), Duration: 1500 * time.Microsecond, Time: now}
	if err := sink.RecordPlan(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}

	p := write.NewPointWithMeasurement("plan_computed").
		AddTag("strategy", "segmented").
		AddTag("shift", "morning").
		AddTag("outcome", "complete").
		AddTag("scenario_id", "sc1").
		AddField("plan_id", "plan-1").
		AddField("legs", 4).
		AddField("stops", 2).
		AddField("distance", 20.0).
		AddField("units_delivered", 2).
		AddField("weight_delivered", 140.0).
		AddField("peak_payload_ratio", 0.28).
		AddField("rejected", 1).
		AddField("undelivered", 0).
		AddField("iterations", 3).
		AddField("duration_ms", 1.5).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	got := bodies()
	if len(got) != 1 || got[0] != expected {
		t.Errorf("unexpected bodies: %#v\nwant %s", got, expected)
	}
}

func TestInfluxSink_RecordHistory(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	if err := sink.RecordHistory(coremetrics.HistoryEvent{Action: coremetrics.HistorySaved, EntryID: "e1", Backend: "sqlite", Time: now}); err != nil {
		t.Fatalf("record: %v", err)
	}
	p := write.NewPointWithMeasurement("history_event").
		AddTag("action", "saved").
		AddTag("backend", "sqlite").
		AddField("entry_id", "e1").
		SetTime(now)
	exp := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	got := bodies()
	if len(got) != 1 || got[0] != exp {
		t.Errorf("bodies: %#v", got)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}

func TestRejectedUnits(t *testing.T) {
	p := samplePlan()
	p.Undelivered = []model.Rejection{{Request: model.TransportRequest{Kind: model.KindPassenger, Quantity: 3}}}
	if n := rejectedUnits(p); n != 4 {
		t.Fatalf("expected 4 got %d", n)
	}
}
