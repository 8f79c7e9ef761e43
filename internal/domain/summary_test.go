package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSolverSummaryKeepsInsertionOrder(t *testing.T) {
	var s SolverSummary
	s.Set("Status", "OPTIMAL")
	s.Set("Objective value", "205.94")
	s.Set("Used edges", "25")
	s.Set("Status", "FEASIBLE")

	require.Equal(t, []string{"Status", "Objective value", "Used edges"}, s.Keys())
	v, ok := s.Get("Status")
	require.True(t, ok)
	require.Equal(t, "FEASIBLE", v)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	require.JSONEq(t, `{"Status":"FEASIBLE","Objective value":"205.94","Used edges":"25"}`, string(b))
	require.Equal(t, `{"Status":"FEASIBLE","Objective value":"205.94","Used edges":"25"}`, string(b))
}

func TestSolverSummaryZeroValue(t *testing.T) {
	var s SolverSummary
	require.Equal(t, 0, s.Len())
	_, ok := s.Get("Status")
	require.False(t, ok)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	require.Equal(t, `{}`, string(b))
}

func TestSolverSummaryUnmarshalPreservesOrder(t *testing.T) {
	var s SolverSummary
	err := json.Unmarshal([]byte(`{"Total runtime":"1.5","Status":"OPTIMAL","Total distance":"42.0"}`), &s)
	require.NoError(t, err)
	require.Equal(t, []string{"Total runtime", "Status", "Total distance"}, s.Keys())

	require.Error(t, json.Unmarshal([]byte(`["Status"]`), &s))
	require.Error(t, json.Unmarshal([]byte(`{"Status":1}`), &s))
}

func TestLocationIDAcceptsNumbersAndStrings(t *testing.T) {
	var locs []Location
	err := json.Unmarshal([]byte(`[
		{"id": 7, "name": "Phoenix", "lat": 33.45, "lng": -112.07, "demand": 4},
		{"id": "tucson", "name": "Tucson", "lat": 32.22, "lng": -110.97}
	]`), &locs)
	require.NoError(t, err)
	require.Len(t, locs, 2)

	require.Equal(t, LocationID("7"), locs[0].ID)
	require.Equal(t, 4, locs[0].DemandOrZero())
	require.Equal(t, LocationID("tucson"), locs[1].ID)
	require.Nil(t, locs[1].Demand)
	require.Equal(t, 0, locs[1].DemandOrZero())
	require.Equal(t, Coordinates{Lat: 32.22, Lon: -110.97}, locs[1].Coordinates())
}

func TestProblemValidateAndSelect(t *testing.T) {
	cities := []Location{{Name: "A"}, {Name: "B"}, {Name: "C"}}

	p := Problem{Depots: 2, Capacity: 10, Fleet: 1, Cities: cities, Demands: map[int]int{2: 9}}
	require.NoError(t, p.Validate())
	require.Len(t, p.Selected(), 2)
	require.Equal(t, "E-n2-k1", p.Name())
	require.Equal(t, 9, p.DemandAt(2))
	require.Equal(t, 0, p.DemandAt(1))

	bad := []Problem{
		{Depots: 0, Capacity: 10, Fleet: 1, Cities: cities},
		{Depots: 2, Capacity: 0, Fleet: 1, Cities: cities},
		{Depots: 2, Capacity: 10, Fleet: 0, Cities: cities},
		{Depots: 4, Capacity: 10, Fleet: 1, Cities: cities},
	}
	for _, b := range bad {
		require.ErrorIs(t, b.Validate(), ErrInvalidProblem)
	}
}
