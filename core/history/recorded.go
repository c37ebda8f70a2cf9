package history

import (
	"context"
	"time"

	"github.com/kilianp07/airlift/core/logger"
	"github.com/kilianp07/airlift/core/metrics"
)

// Recorded wraps a store and reports every save and deletion.
type Recorded struct {
	Store
	backend  string
	recorder metrics.HistoryRecorder
	log      logger.Logger
}

// NewRecorded decorates s. backend labels the emitted events.
func NewRecorded(s Store, backend string, rec metrics.HistoryRecorder, log logger.Logger) *Recorded {
	if rec == nil {
		rec = metrics.NopSink{}
	}
	return &Recorded{Store: s, backend: backend, recorder: rec, log: logger.OrNop(log)}
}

func (r *Recorded) Save(ctx context.Context, e Entry) (Entry, error) {
	saved, err := r.Store.Save(ctx, e)
	if err != nil {
		return saved, err
	}
	r.record(metrics.HistorySaved, saved.ID)
	return saved, nil
}

func (r *Recorded) Delete(ctx context.Context, id string) error {
	if err := r.Store.Delete(ctx, id); err != nil {
		return err
	}
	r.record(metrics.HistoryDeleted, id)
	return nil
}

func (r *Recorded) record(action metrics.HistoryAction, id string) {
	ev := metrics.HistoryEvent{Action: action, EntryID: id, Backend: r.backend, Time: time.Now()}
	if err := r.recorder.RecordHistory(ev); err != nil {
		r.log.Warnf("history %s %s: %v", action, id, err)
	}
}
