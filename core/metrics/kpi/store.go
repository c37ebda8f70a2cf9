package kpi

import "time"

// Store persists daily KPI records.
type Store interface {
	Add(Record) error
	Query(strategy string, start, end time.Time) ([]Record, error)
}

// Day truncates t to the start of its UTC day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
