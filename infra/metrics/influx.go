package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/airlift/core/metrics"
	"github.com/kilianp07/airlift/core/model"
	"github.com/kilianp07/airlift/infra/logger"
)

// InfluxSink writes plan events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.PlanSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPlan writes one plan_computed point.
func (s *InfluxSink) RecordPlan(ev coremetrics.PlanEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, planPoint(ev))
}

// RecordHistory writes one history_event point.
func (s *InfluxSink) RecordHistory(ev coremetrics.HistoryEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("history_event").
		AddTag("action", string(ev.Action)).
		AddTag("backend", ev.Backend).
		AddField("entry_id", ev.EntryID).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the client resources.
func (s *InfluxSink) Close() { s.client.Close() }

func planPoint(ev coremetrics.PlanEvent) *write.Point {
	p := ev.Plan
	m := p.Metrics
	return write.NewPointWithMeasurement("plan_computed").
		AddTag("strategy", p.Strategy).
		AddTag("shift", p.Shift.String()).
		AddTag("outcome", string(p.Outcome)).
		AddTag("scenario_id", ev.ScenarioID).
		AddField("plan_id", p.ID).
		AddField("legs", len(p.Legs)).
		AddField("stops", m.TotalStops).
		AddField("distance", round3(m.TotalDistance)).
		AddField("units_delivered", m.UnitsDelivered).
		AddField("weight_delivered", round3(m.TotalWeightDelivered)).
		AddField("peak_payload_ratio", round3(m.PeakPayloadRatio)).
		AddField("rejected", len(p.Rejected)).
		AddField("undelivered", len(p.Undelivered)).
		AddField("iterations", p.Iterations).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

// rejectedUnits counts the seat units a plan could not deliver.
func rejectedUnits(p model.DispatchPlan) int {
	n := 0
	for _, r := range p.Rejected {
		n += r.Request.SeatCost()
	}
	for _, r := range p.Undelivered {
		n += r.Request.SeatCost()
	}
	return n
}
