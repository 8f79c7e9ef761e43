package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"solver-route-service/internal/domain"
)

func threeCityProblem() domain.Problem {
	return domain.Problem{
		Depots:   3,
		Capacity: 100,
		Fleet:    2,
		Cities: []domain.Location{
			{ID: "1", Name: "Depot", Lat: 33.44838, Lng: -112.07404},
			{ID: "2", Name: "Tucson", Lat: 32.22174, Lng: -110.92648, Demand: demand(7)},
			{ID: "3", Name: "Flagstaff", Lat: 35.19807, Lng: -111.65127, Demand: demand(4)},
			{ID: "4", Name: "Yuma", Lat: 32.69265, Lng: -114.62769, Demand: demand(9)},
		},
		Demands: map[int]int{3: 12},
	}
}

func TestRenderProblemFile(t *testing.T) {
	want := strings.Join([]string{
		"NAME : E-n3-k2",
		"TYPE : CVRP",
		"DIMENSION : 3",
		"CAPACITY : 100",
		"EDGE_WEIGHT_TYPE : EUC_2D",
		"NODE_COORD_SECTION",
		"1 33.4484 -112.0740",
		"2 32.2217 -110.9265",
		"3 35.1981 -111.6513",
		"DEMAND_SECTION",
		"1 0",
		"2 7",
		"3 12",
		"DEPOT_SECTION",
		"1",
		"-1",
		"EOF",
	}, "\n")

	require.Equal(t, want, string(RenderProblemFile(threeCityProblem())))
}

func TestWriteProblemFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Map_Datasets")
	p := threeCityProblem()

	path, err := WriteProblemFile(dir, p, RenderProblemFile(p))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "E-n3-k2.txt"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(b), "NAME : E-n3-k2\n"))
	require.False(t, strings.HasSuffix(string(b), "\n"))

	_, err = WriteProblemFile("  ", p, nil)
	require.Error(t, err)
}

func TestOutputKey(t *testing.T) {
	content := RenderProblemFile(threeCityProblem())

	a := OutputKey(domain.SolverClassical, content)
	require.Regexp(t, `^solver:classical:[0-9a-f]+$`, a)
	require.Equal(t, a, OutputKey(domain.SolverClassical, content))
	require.NotEqual(t, a, OutputKey(domain.SolverQuantum, content))
	require.NotEqual(t, a, OutputKey(domain.SolverClassical, append(content, '\n')))
}
