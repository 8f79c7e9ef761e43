package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"solver-route-service/internal/domain"
)

const classicalStdout = `Solving CVRP with OR-Tools
Nodes: 22 (including depot)
Vehicles: 4
Capacity: 6000
Total demand: 22500
Solving...

Solution found!
Status: OPTIMAL
Objective value: 375.28
Used edges: 25
Route 1: [0, 17, 20, 18, 15, 12, 0] - Distance: 112.43, Demand: 5900
Route 2: [0, 16, 19, 21, 14, 0] - Distance: 88.10, Demand: 5800
Route 3: [0, 13, 11, 4, 3, 8, 10, 0] - Distance: 95.02, Demand: 5500
Route 4: [0, 7, 5, 2, 6, 9, 1, 0] - Distance: 79.73, Demand: 5300
Total distance: 375.28

Final Results:
Total distance: 375.28
Actual Runtime: 20.47s
`

func TestInterpretClassicalOutput(t *testing.T) {
	res := Interpret(classicalStdout)

	require.Len(t, res.Routes, 4)

	r := res.Routes[0]
	require.Equal(t, 1, r.ID)
	require.Equal(t, "Truck #1", r.Label)
	require.Equal(t, []int{1, 17, 20, 18, 15, 12, 1}, r.NodeIndices)
	require.Equal(t, "1 → 17 → 20 → 18 → 15 → 12 → 1", r.PathText)
	require.Empty(t, r.Color)

	// The depot rewrite never reorders or deduplicates.
	require.Equal(t, []int{1, 7, 5, 2, 6, 9, 1, 1}, res.Routes[3].NodeIndices)

	require.NotNil(t, res.Totals.Distance)
	require.Equal(t, "375.28", *res.Totals.Distance)
	require.NotNil(t, res.Totals.TimeSeconds)
	require.Equal(t, "20.47", *res.Totals.TimeSeconds)

	require.Equal(t,
		[]string{SummaryStatus, SummaryObjective, SummaryUsedEdges, SummaryTotalDistance, SummaryTotalRuntime},
		res.Summary.Keys(),
	)
	status, _ := res.Summary.Get(SummaryStatus)
	require.Equal(t, "OPTIMAL", status)
	obj, _ := res.Summary.Get(SummaryObjective)
	require.Equal(t, "375.28", obj)
	edges, _ := res.Summary.Get(SummaryUsedEdges)
	require.Equal(t, "25", edges)
	rt, _ := res.Summary.Get(SummaryTotalRuntime)
	require.Equal(t, "20.47", rt)
	require.True(t, res.Found())
}

func TestInterpretWellFormedRouteLine(t *testing.T) {
	res := Interpret("Route 3: [0, 4, 7] ... - Distance: 12.5")

	require.Len(t, res.Routes, 1)
	require.Equal(t, 3, res.Routes[0].ID)
	require.Equal(t, []int{1, 4, 7}, res.Routes[0].NodeIndices)
	require.Equal(t, "1 → 4 → 7", res.Routes[0].PathText)
}

func TestInterpretEmptyAndGarbageInput(t *testing.T) {
	inputs := map[string]string{
		"empty":     "",
		"garbage":   "\x00\xff\xfe binary \x01\x02 noise",
		"truncated": "Route 1: [0, 4, 7",
		"no dist":   "Route 1: [0, 4, 7]\n- Distance: 3.0",
		"prose":     "routes were computed but not printed",
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			var res domain.Interpretation
			require.NotPanics(t, func() { res = Interpret(in) })

			require.NotNil(t, res.Routes)
			require.Empty(t, res.Routes)
			require.Equal(t, 0, res.Summary.Len())
			require.Nil(t, res.Totals.Distance)
			require.Nil(t, res.Totals.TimeSeconds)
			require.False(t, res.Found())
		})
	}
}

func TestInterpretEmptyJSONShape(t *testing.T) {
	b, err := json.Marshal(Interpret(""))
	require.NoError(t, err)
	require.JSONEq(t, `{"routes":[],"summary":{},"totals":{"distance":null,"timeSeconds":null}}`, string(b))
}

func TestInterpretTotalsAreIndependent(t *testing.T) {
	res := Interpret("Total distance: 42.0")
	require.NotNil(t, res.Totals.Distance)
	require.Equal(t, "42.0", *res.Totals.Distance)
	require.Nil(t, res.Totals.TimeSeconds)
	require.Equal(t, []string{SummaryTotalDistance}, res.Summary.Keys())

	res = Interpret("Actual Runtime: 3.14s")
	require.Nil(t, res.Totals.Distance)
	require.NotNil(t, res.Totals.TimeSeconds)
	require.Equal(t, "3.14", *res.Totals.TimeSeconds)
}

func TestInterpretRuntimeFallback(t *testing.T) {
	quantum := `Cluster 1:
Runtime: 4.20 seconds

Total distance: 205.94

Total runtime: 13.66 seconds

Average runtime: 3.41 seconds`

	res := Interpret(quantum)
	require.Empty(t, res.Routes)
	require.Equal(t, "13.66", *res.Totals.TimeSeconds)
	require.Equal(t, "205.94", *res.Totals.Distance)

	avg, ok := res.Summary.Get(SummaryAverageRuntime)
	require.True(t, ok)
	require.Equal(t, "3.41", avg)

	// Actual Runtime wins when both are printed.
	res = Interpret("Total runtime: 9.00 seconds\nActual Runtime: 1.25 s")
	require.Equal(t, "1.25", *res.Totals.TimeSeconds)
}

func TestInterpretKeywordsAreCaseInsensitive(t *testing.T) {
	res := Interpret("ROUTE 2: [3, 0, 5] junk - distance: 1\nstatus: FEASIBLE\nOBJECTIVE VALUE: 10.5\nused EDGES: 4")

	require.Len(t, res.Routes, 1)
	require.Equal(t, []int{3, 1, 5}, res.Routes[0].NodeIndices)

	status, ok := res.Summary.Get(SummaryStatus)
	require.True(t, ok)
	require.Equal(t, "FEASIBLE", status)
	_, ok = res.Summary.Get(SummaryObjective)
	require.True(t, ok)
	_, ok = res.Summary.Get(SummaryUsedEdges)
	require.True(t, ok)
}

func TestInterpretStatusMustBeUpperSnakeCase(t *testing.T) {
	res := Interpret("No solution found. Status: 3")
	_, ok := res.Summary.Get(SummaryStatus)
	require.False(t, ok)

	res = Interpret("Status: MODEL_INVALID")
	status, ok := res.Summary.Get(SummaryStatus)
	require.True(t, ok)
	require.Equal(t, "MODEL_INVALID", status)
}

func TestInterpretNonIntegerTokens(t *testing.T) {
	res := Interpret("Route 1: [0, x, 4] - Distance: 2.0")

	require.Len(t, res.Routes, 1)
	require.Equal(t, []int{1, 4}, res.Routes[0].NodeIndices)
	require.Equal(t, "1 → x → 4", res.Routes[0].PathText)
}

func TestInterpretEmptyIndexList(t *testing.T) {
	res := Interpret("Route 5: [] - Distance: 0.00")

	require.Len(t, res.Routes, 1)
	require.Equal(t, 5, res.Routes[0].ID)
	require.Empty(t, res.Routes[0].NodeIndices)
	require.Equal(t, "", res.Routes[0].PathText)
}

const quantumSolution = `Problem: ./Map_Datasets/E-n22-k4.txt
Number of nodes: 22
Number of vehicles: 4
Vehicle capacity: 6000

CLUSTER SOLUTIONS
=================

Cluster 1:
Path: [1, 15, 22, 1]
Length: 93.57

Cluster 2: INVALID SOLUTION

Cluster 3:
Path: [0, 4, 7, 0]
Length: 40.12

SUMMARY
=======
Total distance: 205.94
Total runtime: 13.66 seconds
Average runtime: 3.41 seconds
`

func TestInterpretRunQuantumSolutionPaths(t *testing.T) {
	// Path blocks are not route lines.
	require.Empty(t, Interpret(quantumSolution).Routes)

	res := InterpretRun(domain.SolverQuantum, quantumSolution)
	require.Len(t, res.Routes, 2)

	require.Equal(t, 1, res.Routes[0].ID)
	require.Equal(t, "Truck #1", res.Routes[0].Label)
	require.Equal(t, []int{1, 15, 22, 1}, res.Routes[0].NodeIndices)
	require.Equal(t, "1 → 15 → 22 → 1", res.Routes[0].PathText)

	// Numbered by appearance; the depot sentinel is rewritten.
	require.Equal(t, 2, res.Routes[1].ID)
	require.Equal(t, []int{1, 4, 7, 1}, res.Routes[1].NodeIndices)

	require.NotNil(t, res.Totals.Distance)
	require.Equal(t, "205.94", *res.Totals.Distance)
	require.NotNil(t, res.Totals.TimeSeconds)
	require.Equal(t, "13.66", *res.Totals.TimeSeconds)
	avg, ok := res.Summary.Get(SummaryAverageRuntime)
	require.True(t, ok)
	require.Equal(t, "3.41", avg)

	// Classical output keeps its route lines; path blocks are only a fallback.
	mixed := classicalStdout + "\nPath: [1, 2, 1]\n"
	require.Len(t, InterpretRun(domain.SolverQuantum, mixed).Routes, 4)
	require.Empty(t, InterpretRun(domain.SolverClassical, quantumSolution).Routes)

	// Console lines such as "Optimal path: [...]" are not solution paths.
	require.Empty(t, InterpretRun(domain.SolverQuantum, "Optimal path: [1, 3, 1]\nPath length: 12").Routes)
}
