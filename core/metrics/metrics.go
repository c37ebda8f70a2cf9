package metrics

import (
	"time"

	"github.com/kilianp07/airlift/core/model"
)

// PlanEvent describes one computed plan.
type PlanEvent struct {
	ScenarioID  string
	Fingerprint uint64
	Plan        model.DispatchPlan
	Duration    time.Duration
	Time        time.Time
}

// PlanSink records computed plans for observability purposes.
type PlanSink interface {
	RecordPlan(ev PlanEvent) error
}

// HistoryAction names an operation on the scenario history.
type HistoryAction string

const (
	HistorySaved   HistoryAction = "saved"
	HistoryDeleted HistoryAction = "deleted"
)

// HistoryEvent captures a change of the scenario history.
type HistoryEvent struct {
	Action  HistoryAction
	EntryID string
	Backend string
	Time    time.Time
}

// HistoryRecorder records scenario history activity.
type HistoryRecorder interface {
	RecordHistory(ev HistoryEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlan(PlanEvent) error       { return nil }
func (NopSink) RecordHistory(HistoryEvent) error { return nil }
