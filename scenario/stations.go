// Package scenario loads, checks and fetches planning scenarios.
package scenario

import "github.com/kilianp07/airlift/core/model"

// DefaultStations returns the field map used when a scenario brings none.
func DefaultStations() []model.Station {
	return []model.Station{
		{ID: 0, Name: "BO Nuevo Mundo", X: 450, Y: 350},
		{ID: 1, Name: "HP 6+800", X: 400, Y: 250},
		{ID: 2, Name: "HP Kinteroni", X: 300, Y: 300},
		{ID: 3, Name: "HP CT-5", X: 250, Y: 150},
		{ID: 4, Name: "HP Sagari AX", X: 100, Y: 200},
		{ID: 5, Name: "HP Sagari BX", X: 80, Y: 100},
		{ID: 6, Name: "HP 14+000", X: 700, Y: 500},
		{ID: 7, Name: "HP Porotobango", X: 550, Y: 80},
		{ID: 8, Name: "HP Kitepampani", X: 180, Y: 450},
	}
}
