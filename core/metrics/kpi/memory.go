package kpi

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps records in memory.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[time.Time]*Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[time.Time]*Record{}}
}

// Add merges r into the record of its strategy and day.
func (s *MemoryStore) Add(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[r.Strategy] == nil {
		s.data[r.Strategy] = map[time.Time]*Record{}
	}
	d := Day(r.Date)
	rec := s.data[r.Strategy][d]
	if rec == nil {
		rec = &Record{Strategy: r.Strategy, Date: d}
		s.data[r.Strategy][d] = rec
	}
	rec.Plans += r.Plans
	rec.UnitsDelivered += r.UnitsDelivered
	rec.Distance += r.Distance
	rec.Rejected += r.Rejected
	return nil
}

// Query returns the records of strategy between start and end inclusive.
func (s *MemoryStore) Query(strategy string, start, end time.Time) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start, end = Day(start), Day(end)
	var res []Record
	for d, r := range s.data[strategy] {
		if d.Before(start) || d.After(end) {
			continue
		}
		res = append(res, *r)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Date.Before(res[j].Date) })
	return res, nil
}
