package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidProblem = errors.New("invalid problem")

// Represents one capacitated vehicle routing problem submitted to a solver.
// Depots is the number of cities (depot included) taken from the front of
// Cities; the depot is always the first selected city. Demands overrides the
// per-city demand, keyed by 1-based city position.
type Problem struct {
	Depots   int         `json:"depots"`
	Capacity int         `json:"capacity"`
	Fleet    int         `json:"fleet"`
	Cities   []Location  `json:"cities"`
	Demands  map[int]int `json:"demands,omitempty"`
}

func (p Problem) Validate() error {
	if p.Depots < 1 {
		return fmt.Errorf("%w: depots must be at least 1 (got %d)", ErrInvalidProblem, p.Depots)
	}
	if p.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1 (got %d)", ErrInvalidProblem, p.Capacity)
	}
	if p.Fleet < 1 {
		return fmt.Errorf("%w: fleet must be at least 1 (got %d)", ErrInvalidProblem, p.Fleet)
	}
	if len(p.Cities) < p.Depots {
		return fmt.Errorf("%w: %d cities supplied for %d depots", ErrInvalidProblem, len(p.Cities), p.Depots)
	}
	return nil
}

// Selected returns the problem's city order: the first Depots cities.
func (p Problem) Selected() []Location {
	n := p.Depots
	if n > len(p.Cities) {
		n = len(p.Cities)
	}
	if n < 0 {
		n = 0
	}
	return p.Cities[:n]
}

// Name follows the CVRP benchmark convention, e.g. "E-n22-k4".
func (p Problem) Name() string {
	return fmt.Sprintf("E-n%d-k%d", p.Depots, p.Fleet)
}

// DemandAt returns the demand of the city at 1-based position i.
func (p Problem) DemandAt(i int) int {
	if d, ok := p.Demands[i]; ok {
		return d
	}
	if i >= 1 && i <= len(p.Cities) {
		return p.Cities[i-1].DemandOrZero()
	}
	return 0
}
