package services

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"solver-route-service/internal/domain"
)

// RenderProblemFile renders a problem in TSPLIB CVRP format.
// City i (1-based) is written with its lat/lng as the node coordinate and the
// depot is always node 1.
func RenderProblemFile(p domain.Problem) []byte {
	selected := p.Selected()

	lines := make([]string, 0, 12+2*len(selected))
	lines = append(lines,
		"NAME : "+p.Name(),
		"TYPE : CVRP",
		fmt.Sprintf("DIMENSION : %d", p.Depots),
		fmt.Sprintf("CAPACITY : %d", p.Capacity),
		"EDGE_WEIGHT_TYPE : EUC_2D",
		"NODE_COORD_SECTION",
	)
	for i, c := range selected {
		lines = append(lines, fmt.Sprintf("%d %.4f %.4f", i+1, c.Lat, c.Lng))
	}

	lines = append(lines, "DEMAND_SECTION")
	for i := 1; i <= p.Depots; i++ {
		lines = append(lines, fmt.Sprintf("%d %d", i, p.DemandAt(i)))
	}

	lines = append(lines, "DEPOT_SECTION", "1", "-1", "EOF")

	return []byte(strings.Join(lines, "\n"))
}

// WriteProblemFile writes <dir>/<name>.txt and returns its path.
func WriteProblemFile(dir string, p domain.Problem, content []byte) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("write problem file: dir must be non-empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("write problem file: create dir %q: %w", dir, err)
	}

	path := filepath.Join(dir, p.Name()+".txt")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write problem file: %q: %w", path, err)
	}

	return path, nil
}

// OutputKey derives the output cache key for a solver kind and rendered
// problem file: solver:<kind>:<xxhash64 hex>.
func OutputKey(kind domain.SolverKind, problem []byte) string {
	return "solver:" + string(kind) + ":" + strconv.FormatUint(xxhash.Sum64(problem), 16)
}

// ParseProblemFile reads a TSPLIB CVRP file as written by RenderProblemFile.
// Cities come back in node order with their demands; the fleet size is read
// from a "-k<fleet>" name suffix and defaults to 1.
func ParseProblemFile(content []byte) (domain.Problem, error) {
	p := domain.Problem{Fleet: 1}

	type node struct {
		lat, lng float64
		demand   int
	}
	nodes := map[int]*node{}
	get := func(i int) *node {
		n, ok := nodes[i]
		if !ok {
			n = &node{}
			nodes[i] = n
		}
		return n
	}

	section := ""
	sc := bufio.NewScanner(bytes.NewReader(content))
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if key, value, ok := strings.Cut(line, ":"); ok {
			key, value = strings.TrimSpace(key), strings.TrimSpace(value)
			switch key {
			case "NAME":
				if i := strings.LastIndex(value, "-k"); i >= 0 {
					if k, err := strconv.Atoi(value[i+2:]); err == nil && k > 0 {
						p.Fleet = k
					}
				}
			case "DIMENSION":
				n, err := strconv.Atoi(value)
				if err != nil {
					return domain.Problem{}, fmt.Errorf("parse problem file: line %d: dimension %q: %w", lineNo, value, err)
				}
				p.Depots = n
			case "CAPACITY":
				n, err := strconv.Atoi(value)
				if err != nil {
					return domain.Problem{}, fmt.Errorf("parse problem file: line %d: capacity %q: %w", lineNo, value, err)
				}
				p.Capacity = n
			}
			continue
		}

		switch line {
		case "NODE_COORD_SECTION", "DEMAND_SECTION", "DEPOT_SECTION":
			section = line
			continue
		case "EOF":
			section = ""
			continue
		}

		fields := strings.Fields(line)
		switch section {
		case "NODE_COORD_SECTION":
			if len(fields) != 3 {
				return domain.Problem{}, fmt.Errorf("parse problem file: line %d: want \"<i> <x> <y>\", got %q", lineNo, line)
			}
			i, err1 := strconv.Atoi(fields[0])
			lat, err2 := strconv.ParseFloat(fields[1], 64)
			lng, err3 := strconv.ParseFloat(fields[2], 64)
			if err := errors.Join(err1, err2, err3); err != nil {
				return domain.Problem{}, fmt.Errorf("parse problem file: line %d: %w", lineNo, err)
			}
			n := get(i)
			n.lat, n.lng = lat, lng
		case "DEMAND_SECTION":
			if len(fields) != 2 {
				return domain.Problem{}, fmt.Errorf("parse problem file: line %d: want \"<i> <demand>\", got %q", lineNo, line)
			}
			i, err1 := strconv.Atoi(fields[0])
			d, err2 := strconv.Atoi(fields[1])
			if err := errors.Join(err1, err2); err != nil {
				return domain.Problem{}, fmt.Errorf("parse problem file: line %d: %w", lineNo, err)
			}
			get(i).demand = d
		}
	}
	if err := sc.Err(); err != nil {
		return domain.Problem{}, fmt.Errorf("parse problem file: %w", err)
	}

	p.Cities = make([]domain.Location, 0, p.Depots)
	for i := 1; i <= p.Depots; i++ {
		n, ok := nodes[i]
		if !ok {
			return domain.Problem{}, fmt.Errorf("parse problem file: %w: node %d missing", domain.ErrInvalidProblem, i)
		}
		d := n.demand
		p.Cities = append(p.Cities, domain.Location{
			ID:     domain.LocationID(strconv.Itoa(i)),
			Name:   fmt.Sprintf("Node %d", i),
			Lat:    n.lat,
			Lng:    n.lng,
			Demand: &d,
		})
	}

	if err := p.Validate(); err != nil {
		return domain.Problem{}, fmt.Errorf("parse problem file: %w", err)
	}
	return p, nil
}
