package scenario

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/airlift/auth"
	"github.com/kilianp07/airlift/core/model"
)

func TestDefaultStations(t *testing.T) {
	n, err := model.NewNetwork(DefaultStations())
	require.NoError(t, err)
	assert.Equal(t, 8, n.NumStations())
	assert.Equal(t, 112.0, n.Distance(0, 1))
	st, ok := n.Station(model.Base)
	require.True(t, ok)
	assert.Equal(t, "BO Nuevo Mundo", st.Name)
}

func TestLoadYAML(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "monday.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "monday", sc.ID)
	assert.Len(t, sc.Stations, 9, "default map applied")
	require.Len(t, sc.Requests, 2)
	assert.Equal(t, model.KindPassenger, sc.Requests[0].Kind)
	assert.Equal(t, model.KindCargo, sc.Requests[1].Kind)
	assert.Equal(t, model.ShiftAfternoon, sc.Requests[1].Shift)
	assert.Equal(t, 1, sc.Requests[1].Quantity, "cargo quantity defaults to 1")
}

func TestLoadJSON(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "field.json"))
	require.NoError(t, err)
	require.Len(t, sc.Stations, 2)
	assert.Equal(t, model.ShiftAfternoon, sc.Requests[0].Shift)
	assert.Equal(t, 150.0, sc.Requests[0].Weight())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("requests:\n  - kind: boat\n"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "decode scenario")
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	sc := model.Scenario{
		Stations: DefaultStations(),
		Vehicle:  model.VehicleConfig{SeatCapacity: 0, MaxPayloadWeight: 100},
		Requests: []model.TransportRequest{
			{ID: "a", Kind: model.KindPassenger, Priority: 1, Origin: 1, Destination: 0, Quantity: 1},
			{ID: "a", Kind: model.KindPassenger, Priority: 9, Origin: 2, Destination: 2, Quantity: 0},
			{ID: "", Kind: model.KindCargo, Priority: 1, Origin: 12, Destination: 0, Quantity: 2, UnitWeight: -1},
		},
	}
	err := Validate(sc)
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		"vehicle", "duplicate id", "priority 9", "origin equals destination", "quantity must be at least 1",
		"empty id", "unknown origin 12", "cargo quantity must be 1", "negative unit weight",
	} {
		assert.Contains(t, msg, want)
	}
	assert.Len(t, strings.Split(msg, "\n"), 9)
}

func TestValidateStations(t *testing.T) {
	sc := model.Scenario{
		Stations: []model.Station{{ID: 1, Name: "Pad"}},
		Vehicle:  model.VehicleConfig{SeatCapacity: 1, MaxPayloadWeight: 1},
	}
	assert.Error(t, Validate(sc))
}

func TestParseRejectsNonFiniteNumbers(t *testing.T) {
	doc := `
id: storm
vehicle:
  seat_capacity: 4
  max_payload_weight: %s
stations:
  - {id: 0, name: Base, x: 0, y: 0}
  - {id: 1, name: Ridge, x: %s, y: 10}
requests:
  - id: c1
    kind: cargo
    shift: morning
    priority: 1
    origin: 1
    destination: 0
    unit_weight: %s
`
	for name, tc := range map[string]struct {
		payload, x, weight, want string
	}{
		"nan weight":     {"500", "0", ".nan", "unit weight must be finite"},
		"inf weight":     {"500", "0", ".inf", "unit weight must be finite"},
		"inf payload":    {".inf", "0", "10", "max payload weight must be finite"},
		"nan coordinate": {"500", ".nan", "10", "non-finite coordinates"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(fmt.Sprintf(doc, tc.payload, tc.x, tc.weight)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestRemoteSource(t *testing.T) {
	var tokens atomic.Int32
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := tokens.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			_, _ = w.Write([]byte(`{"access_token":"stale","token_type":"bearer","expires_in":3600}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"fresh","token_type":"bearer","expires_in":3600}`))
	}))
	defer tokenSrv.Close()

	body, err := os.ReadFile(filepath.Join("testdata", "field.json"))
	require.NoError(t, err)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/scenarios/tuesday" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	}))
	defer api.Close()

	src, err := NewRemoteSource(RemoteConfig{
		URL:  api.URL + "/scenarios",
		Auth: auth.Conf{ClientID: "id", ClientSecret: "secret", AuthURL: tokenSrv.URL},
	})
	require.NoError(t, err)

	sc, err := src.Fetch(context.Background(), "tuesday")
	require.NoError(t, err)
	assert.Equal(t, "tuesday", sc.ID)
	assert.Equal(t, "Two pads", sc.Name)
	assert.Equal(t, int32(2), tokens.Load())

	_, err = src.Fetch(context.Background(), "wednesday")
	assert.ErrorContains(t, err, "status 404")
}

func TestNewRemoteSourceErrors(t *testing.T) {
	_, err := NewRemoteSource(RemoteConfig{})
	assert.Error(t, err)
	_, err = NewRemoteSource(RemoteConfig{URL: "http://x", Auth: auth.Conf{ClientID: "id"}})
	assert.Error(t, err)
}
