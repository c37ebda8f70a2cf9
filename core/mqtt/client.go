package mqtt

import (
	"context"
	"time"

	"github.com/kilianp07/airlift/core/model"
)

// PlanPublisher pushes computed plans to the crews and tracks their
// acknowledgments.
type PlanPublisher interface {
	// PublishPlan sends the plan on its shift and strategy topic.
	PublishPlan(ctx context.Context, scenarioID string, p model.DispatchPlan) error

	// WaitForAck waits until a crew acknowledges the plan or the timeout
	// expires.
	WaitForAck(planID string, timeout time.Duration) (bool, error)
}
