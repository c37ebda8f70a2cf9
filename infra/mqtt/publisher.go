package mqtt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/airlift/core/events"
	"github.com/kilianp07/airlift/core/logger"
	"github.com/kilianp07/airlift/core/model"
	coremqtt "github.com/kilianp07/airlift/core/mqtt"
	"github.com/kilianp07/airlift/internal/eventbus"
)

// PlanPublisher mirrors the core mqtt.PlanPublisher interface.
type PlanPublisher = coremqtt.PlanPublisher

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	Plans    map[string]model.DispatchPlan
	FailIDs  map[string]bool
	AckPlans map[string]bool
	mu       sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Plans:    make(map[string]model.DispatchPlan),
		FailIDs:  make(map[string]bool),
		AckPlans: make(map[string]bool),
	}
}

// PublishPlan records the plan by topic or fails for plans listed in FailIDs.
func (m *MockPublisher) PublishPlan(_ context.Context, _ string, p model.DispatchPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[p.ID] {
		return fmt.Errorf("publish failed")
	}
	m.Plans[Topic(DefaultTopicPrefix, p)] = p
	m.AckPlans[p.ID] = true
	return nil
}

// WaitForAck acknowledges every published plan immediately.
func (m *MockPublisher) WaitForAck(planID string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	ok, exists := m.AckPlans[planID]
	m.mu.Unlock()
	if !exists {
		return false, fmt.Errorf("%w: %s", coremqtt.ErrUnknownPlan, planID)
	}
	return ok, nil
}

// Published returns the number of recorded plans.
func (m *MockPublisher) Published() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Plans)
}

// StartForwarder publishes every plan seen on the bus until ctx is done or
// the bus is closed. The returned channel is closed on exit.
func StartForwarder(ctx context.Context, bus *eventbus.TypedBus[events.PlanComputed], pub PlanPublisher, log logger.Logger) <-chan struct{} {
	log = logger.OrNop(log)
	sub := bus.Subscribe()
	done := make(chan struct{})
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
				if err := pub.PublishPlan(ctx, ev.ScenarioID, ev.Plan); err != nil {
					log.Warnf("forward plan %s: %v", ev.Plan.ID, err)
				}
			}
		}
	}()
	return done
}
