package kpi

import "time"

// Record aggregates the plans of one strategy over a day.
type Record struct {
	Strategy       string    `json:"strategy"`
	Date           time.Time `json:"date"`
	Plans          int       `json:"plans"`
	UnitsDelivered int       `json:"units_delivered"`
	Distance       float64   `json:"distance"`
	Rejected       int       `json:"rejected"`
}

// UnitsPerDistance is the delivery yield of the strategy.
func (r Record) UnitsPerDistance() float64 {
	if r.Distance == 0 {
		return 0
	}
	return float64(r.UnitsDelivered) / r.Distance
}

// MeanDistance is the average distance flown per plan.
func (r Record) MeanDistance() float64 {
	if r.Plans == 0 {
		return 0
	}
	return r.Distance / float64(r.Plans)
}
