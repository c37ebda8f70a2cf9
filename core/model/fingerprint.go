package model

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the parts of a scenario that influence planning: the
// stations, the vehicle and the requests. Names, notes and ids are ignored.
func (s Scenario) Fingerprint() uint64 {
	payload := struct {
		Stations []Station         `json:"s"`
		Vehicle  VehicleConfig      `json:"v"`
		Requests []TransportRequest `json:"r"`
	}{s.Stations, s.Vehicle, s.Requests}
	b, err := json.Marshal(payload)
	if err != nil {
		// every field is plain data; Marshal cannot fail here
		panic(err)
	}
	return xxhash.Sum64(b)
}
