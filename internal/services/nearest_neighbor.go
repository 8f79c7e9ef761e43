package services

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"solver-route-service/internal/domain"
	"solver-route-service/internal/platform/obs"
	"solver-route-service/internal/ports"
)

const earthRadiusKm = 6371.0

// NearestNeighborRoutes builds one tour per truck with a greedy
// nearest-neighbour heuristic.
//
// Each truck leaves the depot and repeatedly drives to the closest unvisited
// city whose demand still fits, returning when none does. Ties go to the lower
// city position so the result is deterministic. It does not attempt global
// optimization.
func NearestNeighborRoutes(p domain.Problem) ([]*domain.Truck, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("nearest neighbor: %w", err)
	}

	cities := p.Selected()

	remaining := make(map[int]struct{}, len(cities))
	for i := 2; i <= len(cities); i++ {
		if d := p.DemandAt(i); d > p.Capacity {
			return nil, fmt.Errorf("nearest neighbor: %w: city %d demand %d exceeds capacity %d",
				domain.ErrInvalidProblem, i, d, p.Capacity)
		}
		remaining[i] = struct{}{}
	}

	trucks := []*domain.Truck{}
	for id := 1; len(remaining) > 0; id++ {
		if id > p.Fleet {
			return nil, fmt.Errorf("nearest neighbor: %d cities left unserved by %d trucks", len(remaining), p.Fleet)
		}

		truck := domain.NewTruck(id, p.Capacity)
		current := 1
		for {
			best := 0
			bestDist := math.Inf(1)

			// Select next stop by minimum distance (greedy step).
			for i := range remaining {
				if p.DemandAt(i) > truck.Remaining() {
					continue
				}
				d := haversineKm(cities[current-1].Coordinates(), cities[i-1].Coordinates())
				if d < bestDist || (d == bestDist && i < best) {
					best, bestDist = i, d
				}
			}
			if best == 0 {
				break
			}

			if err := truck.Serve(best, p.DemandAt(best)); err != nil {
				return nil, fmt.Errorf("nearest neighbor: %w", err)
			}
			delete(remaining, best)
			current = best
		}

		trucks = append(trucks, truck)
	}

	return trucks, nil
}

// TourDistanceKm sums great-circle leg lengths along a tour of 1-based positions.
func TourDistanceKm(cities []domain.Location, tour []int) float64 {
	total := 0.0
	for i := 0; i+1 < len(tour); i++ {
		a, b := tour[i], tour[i+1]
		if a < 1 || b < 1 || a > len(cities) || b > len(cities) {
			continue
		}
		total += haversineKm(cities[a-1].Coordinates(), cities[b-1].Coordinates())
	}
	return total
}

// RenderHeuristicOutput prints trucks in the classical solver's console format.
// The depot is written as 0; other stops keep their 1-based position.
func RenderHeuristicOutput(p domain.Problem, trucks []*domain.Truck, elapsed time.Duration) string {
	cities := p.Selected()

	var b strings.Builder
	fmt.Fprintln(&b, "Solving CVRP with nearest-neighbour heuristic")
	fmt.Fprintf(&b, "Nodes: %d (including depot)\n", len(cities))
	fmt.Fprintf(&b, "Vehicles: %d\n", p.Fleet)
	fmt.Fprintf(&b, "Capacity: %d\n", p.Capacity)
	fmt.Fprintln(&b, "Status: FEASIBLE")

	total := 0.0
	for _, t := range trucks {
		tour := t.Tour()
		dist := TourDistanceKm(cities, tour)
		total += dist

		tokens := make([]string, len(tour))
		for i, n := range tour {
			if n == depotIndex {
				n = 0
			}
			tokens[i] = strconv.Itoa(n)
		}
		fmt.Fprintf(&b, "Route %d: [%s] - Distance: %.2f, Demand: %d\n", t.ID, strings.Join(tokens, ", "), dist, t.Load)
	}

	fmt.Fprintf(&b, "Total distance: %.2f\n", total)
	fmt.Fprintf(&b, "Actual Runtime: %.2fs\n", elapsed.Seconds())
	return b.String()
}

// HeuristicRunner answers both solver kinds in-process with
// NearestNeighborRoutes, reading the problem file the service wrote.
type HeuristicRunner struct{}

func NewHeuristicRunner() *HeuristicRunner {
	return &HeuristicRunner{}
}

func (h *HeuristicRunner) Run(
	ctx context.Context,
	kind domain.SolverKind,
	problemPath string,
) (_ ports.SolverOutput, err error) {
	defer obs.Time(ctx, "solver.heuristic.Run")(&err)

	if err := ctx.Err(); err != nil {
		return ports.SolverOutput{}, fmt.Errorf("heuristic solver %q: %w", kind, err)
	}

	content, err := os.ReadFile(problemPath)
	if err != nil {
		return ports.SolverOutput{}, fmt.Errorf("heuristic solver %q: read problem %q: %w", kind, problemPath, err)
	}

	p, err := ParseProblemFile(content)
	if err != nil {
		return ports.SolverOutput{Stderr: err.Error()}, fmt.Errorf("heuristic solver %q: %w", kind, err)
	}

	start := time.Now()
	trucks, err := NearestNeighborRoutes(p)
	if err != nil {
		return ports.SolverOutput{Stderr: err.Error()}, fmt.Errorf("heuristic solver %q: %w", kind, err)
	}

	return ports.SolverOutput{Stdout: RenderHeuristicOutput(p, trucks, time.Since(start))}, nil
}

func haversineKm(a, b domain.Coordinates) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}
