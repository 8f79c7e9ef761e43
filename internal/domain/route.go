package domain

// Represents one vehicle route reported by the solver.
// NodeIndices are 1-based positions into the problem's city order; the solver's
// depot sentinel 0 has already been rewritten to 1. A ParsedRoute is produced
// once per run and treated as immutable afterwards. Color is owned by the
// presentation layer and is empty when the solver output is first interpreted.
type ParsedRoute struct {
	ID          int    `json:"id"`
	Label       string `json:"label"`
	NodeIndices []int  `json:"nodeIndices"`
	PathText    string `json:"pathText"`
	Color       string `json:"color,omitempty"`
}

// Aggregate totals reported by the solver.
// Values are kept as the decimal text printed by the solver; nil means the
// field was not found in the output, which is distinct from a parsed zero.
type SolverTotals struct {
	Distance    *string `json:"distance"`
	TimeSeconds *string `json:"timeSeconds"`
}

// Everything extracted from one block of solver output.
type Interpretation struct {
	Routes  []ParsedRoute `json:"routes"`
	Summary SolverSummary `json:"summary"`
	Totals  SolverTotals  `json:"totals"`
}

// Found reports whether any total or summary field was extracted. Callers use
// it to tell unparseable output apart from a legitimately empty solve.
func (i Interpretation) Found() bool {
	return i.Totals.Distance != nil || i.Totals.TimeSeconds != nil || i.Summary.Len() > 0
}

// A directional marker placed along a route segment.
type Arrow struct {
	Position       Coordinates `json:"position"`
	BearingDegrees float64     `json:"bearingDegrees"`
	Color          string      `json:"color"`
}

// Map-renderable geometry derived from a ParsedRoute and a location table.
// It is never persisted and is recomputed whenever either input changes.
type RouteGeometry struct {
	RouteID     int           `json:"routeId"`
	Coordinates []Coordinates `json:"coordinates"`
	Arrows      []Arrow       `json:"arrows"`
}
