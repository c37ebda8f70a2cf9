package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/airlift/core/model"
)

var (
	testVehicle = model.VehicleConfig{SeatCapacity: 4, MaxPayloadWeight: 400}
	testNetwork = model.MustNetwork([]model.Station{
		{ID: 0, X: 0, Y: 0},
		{ID: 1, X: 0, Y: 30},
		{ID: 2, X: 40, Y: 30},
	})
)

func pax(id string, qty int, from, to model.StationID) model.TransportRequest {
	return model.TransportRequest{ID: id, Kind: model.KindPassenger, Quantity: qty, UnitWeight: 50, Origin: from, Destination: to, Priority: 1}
}

func TestBuilder_RecordsLoad(t *testing.T) {
	b := NewBuilder(testVehicle, testNetwork, model.Base)
	b.Travel(1, nil, "")
	r := pax("a", 3, 1, 2)
	b.Pickup([]model.TransportRequest{r})
	seats, weight := b.Load()
	assert.Equal(t, 3, seats)
	assert.Equal(t, 150.0, weight)

	b.Travel(2, []model.TransportRequest{r}, "")
	b.Dropoff([]model.TransportRequest{r})
	b.Travel(model.Base, nil, "Final return to Base")

	p := b.Build(Meta{ID: "p1", Strategy: "s", Outcome: model.OutcomeComplete})
	require.Len(t, p.Legs, 5)

	assert.Equal(t, "Flying from Base to Station 1", p.Legs[0].Note)
	assert.Equal(t, 30.0, p.Legs[0].Distance)
	assert.Equal(t, "Boarding 3 passenger(s) at Station 1", p.Legs[1].Note)
	assert.Equal(t, model.StationID(1), p.Legs[2].From)
	assert.Equal(t, 3, p.Legs[2].SeatsAboard)
	assert.Equal(t, 0, p.Legs[3].SeatsAboard)
	assert.Equal(t, 0.0, p.Legs[3].WeightAboard)
	assert.Equal(t, "Final return to Base", p.Legs[4].Note)

	assert.Equal(t, 2, p.Metrics.TotalStops)
	assert.Equal(t, 3, p.Metrics.TotalLegs)
	assert.Equal(t, 120.0, p.Metrics.TotalDistance)
	assert.Equal(t, 3, p.Metrics.UnitsDelivered)
	assert.Equal(t, 150.0, p.Metrics.TotalWeightDelivered)
	assert.InDelta(t, 0.375, p.Metrics.PeakPayloadRatio, 1e-9)
}

func TestBuilder_EmptyBatchesIgnored(t *testing.T) {
	b := NewBuilder(testVehicle, testNetwork, model.Base)
	b.Pickup(nil)
	b.Dropoff(nil)
	assert.Equal(t, 0, b.Len())
}

func TestBuilder_CargoNote(t *testing.T) {
	b := NewBuilder(testVehicle, testNetwork, 2)
	b.Pickup([]model.TransportRequest{{ID: "c", Kind: model.KindCargo, Quantity: 1, UnitWeight: 90}})
	p := b.Build(Meta{})
	assert.Equal(t, "Boarding 1 cargo item(s) at Station 2", p.Legs[0].Note)
}

func TestBuilder_BuildTwicePanics(t *testing.T) {
	b := NewBuilder(testVehicle, testNetwork, model.Base)
	b.Build(Meta{})
	assert.Panics(t, func() { b.Build(Meta{}) })
}

func TestDerive_RevisitCountsAgain(t *testing.T) {
	r := pax("a", 1, 1, 0)
	legs := []model.FlightLeg{
		{Kind: model.LegTravel, Station: 1, Distance: 30},
		{Kind: model.LegPickup, Station: 1, Items: []model.TransportRequest{r}},
		{Kind: model.LegTravel, Station: 0, Distance: 30},
		{Kind: model.LegDropoff, Station: 0, Items: []model.TransportRequest{r}},
		{Kind: model.LegTravel, Station: 1, Distance: 30},
		{Kind: model.LegPickup, Station: 1, Items: []model.TransportRequest{r}},
		{Kind: model.LegTravel, Station: 0, Distance: 30},
		{Kind: model.LegDropoff, Station: 0, Items: []model.TransportRequest{r}},
	}
	m := Derive(legs, testVehicle)
	assert.Equal(t, 4, m.TotalStops)
	assert.Equal(t, 4, m.TotalLegs)
	assert.Equal(t, 2, m.UnitsDelivered)
	assert.Equal(t, 120.0, m.TotalDistance)
}

func TestDerive_PassThroughIsNotAStop(t *testing.T) {
	legs := []model.FlightLeg{
		{Kind: model.LegTravel, Station: 1, Distance: 30},
		{Kind: model.LegTravel, Station: 0, Distance: 30},
	}
	m := Derive(legs, testVehicle)
	assert.Equal(t, 0, m.TotalStops)
	assert.Equal(t, 2, m.TotalLegs)
}
