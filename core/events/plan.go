package events

import (
	"time"

	"github.com/kilianp07/airlift/core/model"
)

// PlanComputed is published once per computed plan.
type PlanComputed struct {
	ScenarioID  string
	Fingerprint uint64
	Plan        model.DispatchPlan
	Duration    time.Duration
	Time        time.Time
}
