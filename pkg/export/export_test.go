package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/airlift/core/model"
)

func samplePlan() model.DispatchPlan {
	group := model.TransportRequest{ID: "p1", Kind: model.KindPassenger, Quantity: 3, UnitWeight: 70, Origin: 1, Destination: 0}
	crate := model.TransportRequest{ID: "c1", Kind: model.KindCargo, Quantity: 1, UnitWeight: 40, Origin: 1, Destination: 0}
	return model.DispatchPlan{
		ID:       "plan-1",
		Strategy: "passenger_first",
		Title:    "Passengers first",
		Shift:    model.ShiftMorning,
		Outcome:  model.OutcomeFuse,
		Legs: []model.FlightLeg{
			{Kind: model.LegTravel, From: 0, Station: 1, Distance: 10, Note: "Flying from Base to Station 1"},
			{Kind: model.LegPickup, Station: 1, Items: []model.TransportRequest{group}, SeatsAboard: 3, WeightAboard: 210, Note: "Boarding"},
			{Kind: model.LegTravel, From: 1, Station: 0, Distance: 10, Items: []model.TransportRequest{group}, SeatsAboard: 3, WeightAboard: 210},
			{Kind: model.LegDropoff, Station: 0, Items: []model.TransportRequest{group}, Note: "Unloading, at base"},
		},
		Metrics:     model.Metrics{TotalStops: 2, TotalLegs: 2, TotalDistance: 20, UnitsDelivered: 3, TotalWeightDelivered: 210, PeakPayloadRatio: 0.42},
		Requested:   2,
		Excluded:    1,
		Undelivered: []model.Rejection{{Request: crate, Reason: model.RejectUndelivered}},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, samplePlan()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "step", rows[0][0])
	assert.Equal(t, []string{"1", "TRAVEL", "Station 1", "Base", "10", "", "0", "0", "0", "Flying from Base to Station 1"}, rows[1])
	assert.Equal(t, []string{"2", "PICKUP", "Station 1", "", "0", "p1 x3", "3", "3", "210", "Boarding"}, rows[2])
	assert.Equal(t, "Unloading, at base", rows[4][9])
}

func TestWriteSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, []model.DispatchPlan{samplePlan()}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"passenger_first", "Passengers first", "morning", "fuse", "2", "2", "20", "3", "210", "0.420", "2", "0", "1", "1",
	}, rows[1])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, []model.DispatchPlan{samplePlan()}))

	var out []model.DispatchPlan
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "plan-1", out[0].ID)
	assert.Equal(t, model.LegDropoff, out[0].Legs[3].Kind)
	assert.Contains(t, buf.String(), `"kind": "PICKUP"`)
}
