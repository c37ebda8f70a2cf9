package metrics

import (
	"context"

	"github.com/kilianp07/airlift/core/events"
	"github.com/kilianp07/airlift/core/logger"
	coremetrics "github.com/kilianp07/airlift/core/metrics"
	"github.com/kilianp07/airlift/internal/eventbus"
)

// StartPlanCollector subscribes to the plan bus and records every computed
// plan in sink. It stops when the context is canceled or the bus is closed.
// The returned channel is closed once the collector has stopped.
func StartPlanCollector(ctx context.Context, bus *eventbus.TypedBus[events.PlanComputed], sink coremetrics.PlanSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	log = logger.OrNop(log)
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				err := sink.RecordPlan(coremetrics.PlanEvent{
					ScenarioID:  ev.ScenarioID,
					Fingerprint: ev.Fingerprint,
					Plan:        ev.Plan,
					Duration:    ev.Duration,
					Time:        ev.Time,
				})
				if err != nil {
					log.Warnf("record plan %s: %v", ev.Plan.ID, err)
				}
			}
		}
	}()
	return done
}
