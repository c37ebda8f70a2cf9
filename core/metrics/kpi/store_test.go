package kpi

import (
	"testing"
	"time"
)

func TestMemoryStore_Aggregation(t *testing.T) {
	s := NewMemoryStore()
	d := Day(time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC))
	if err := s.Add(Record{Strategy: "segmented", Date: d, Plans: 1, UnitsDelivered: 6, Distance: 100}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Add(Record{Strategy: "segmented", Date: d.Add(5 * time.Hour), Plans: 1, UnitsDelivered: 2, Distance: 60, Rejected: 1}); err != nil {
		t.Fatalf("add2: %v", err)
	}
	if err := s.Add(Record{Strategy: "segmented", Date: d.AddDate(0, 0, 2), Plans: 1}); err != nil {
		t.Fatalf("add3: %v", err)
	}
	recs, err := s.Query("segmented", d, d)
	if err != nil || len(recs) != 1 {
		t.Fatalf("query: %v len=%d", err, len(recs))
	}
	r := recs[0]
	if r.Plans != 2 || r.UnitsDelivered != 8 || r.Distance != 160 || r.Rejected != 1 {
		t.Fatalf("unexpected aggregate %+v", r)
	}
	all, _ := s.Query("segmented", d, d.AddDate(0, 0, 3))
	if len(all) != 2 || !all[0].Date.Before(all[1].Date) {
		t.Fatalf("expected two ordered records, got %+v", all)
	}
	if none, _ := s.Query("cargo_first", d, d); len(none) != 0 {
		t.Fatalf("unexpected records for other strategy")
	}
}

func TestRecordCalculations(t *testing.T) {
	r := Record{Plans: 2, UnitsDelivered: 10, Distance: 200}
	if r.UnitsPerDistance() != 0.05 {
		t.Fatalf("yield %v", r.UnitsPerDistance())
	}
	if r.MeanDistance() != 100 {
		t.Fatalf("mean %v", r.MeanDistance())
	}
	if (Record{}).UnitsPerDistance() != 0 || (Record{}).MeanDistance() != 0 {
		t.Fatalf("zero record")
	}
}
