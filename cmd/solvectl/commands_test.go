package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

const stdout = `Route 1: [0, 2, 0] - Distance: 3.00, Demand: 4
Total distance: 3.00
Total runtime: 0.20 seconds
`

func TestInterpretFromStdin(t *testing.T) {
	out, err := run(t, stdout, "interpret")
	require.NoError(t, err)

	var res struct {
		Found  bool `json:"found"`
		Routes []struct {
			PathText string `json:"pathText"`
		} `json:"routes"`
		Display map[string]string `json:"display"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.True(t, res.Found)
	require.Equal(t, "1 → 2 → 1", res.Routes[0].PathText)
	require.Equal(t, "3.00", res.Display["distance"])
	require.Equal(t, "0.20", res.Display["timeSeconds"])
}

func TestGeometryRequiresLocations(t *testing.T) {
	_, err := run(t, stdout, "geometry")
	require.Error(t, err)

	dir := t.TempDir()
	locs := filepath.Join(dir, "locations.json")
	require.NoError(t, os.WriteFile(locs, []byte(`[
		{"id": 1, "name": "Depot", "lat": 33.45, "lng": -112.07},
		{"id": 2, "name": "Stop", "lat": 32.22, "lng": -110.93}
	]`), 0o644))
	in := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(in, []byte(stdout), 0o644))

	out, err := run(t, "", "geometry", "--locations", locs, in)
	require.NoError(t, err)
	require.Contains(t, out, `"FeatureCollection"`)
	require.Contains(t, out, `"LineString"`)
}

func TestPathCommands(t *testing.T) {
	out, err := run(t, "", "path", "format", "6", "3", "11")
	require.NoError(t, err)
	require.Equal(t, "6 → 3 → 11\n", out)

	out, err = run(t, "", "path", "parse", "6 -> 3 → 11")
	require.NoError(t, err)
	require.JSONEq(t, `[6,3,11]`, out)

	out, err = run(t, "", "path", "anchor", "20 → 14 → 1 → 17")
	require.NoError(t, err)
	require.Equal(t, "1 → 17 → 20 → 14 → 1\n", out)
}

func TestInterpretQuantumKind(t *testing.T) {
	solution := "Cluster 1:\nPath: [1, 15, 22, 1]\nLength: 93.57\n\nTotal distance: 93.57\n"

	out, err := run(t, solution, "interpret", "--kind", "quantum")
	require.NoError(t, err)

	var res struct {
		Routes []struct {
			Label    string `json:"label"`
			PathText string `json:"pathText"`
		} `json:"routes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Routes, 1)
	require.Equal(t, "Truck #1", res.Routes[0].Label)
	require.Equal(t, "1 → 15 → 22 → 1", res.Routes[0].PathText)

	out, err = run(t, solution, "interpret")
	require.NoError(t, err)
	require.Contains(t, out, `"routes": []`)
}
