package metrics

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []PlanSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...PlanSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlan forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordPlan(ev PlanEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPlan(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordHistory forwards history events to the sinks that support them.
func (m *MultiSink) RecordHistory(ev HistoryEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(HistoryRecorder); ok {
			if err := rec.RecordHistory(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
