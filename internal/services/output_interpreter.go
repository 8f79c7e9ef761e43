package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"solver-route-service/internal/domain"
)

// Summary keys, in the order they are inserted.
const (
	SummaryStatus         = "Status"
	SummaryObjective      = "Objective value"
	SummaryUsedEdges      = "Used edges"
	SummaryTotalDistance  = "Total distance"
	SummaryTotalRuntime   = "Total runtime"
	SummaryAverageRuntime = "Average runtime"
)

const depotIndex = 1

var (
	// Route <id>: [<indices>] ... - Distance: <d>, all on one line.
	routeLineRe = regexp.MustCompile(`(?i)route\s+(\d+)\s*:\s*\[([^\]\n]*)\][^\n]*?-\s*distance\s*:\s*(\d+(?:\.\d+)?)`)

	totalDistanceRe  = regexp.MustCompile(`(?i)total distance\s*:\s*(\d+(?:\.\d+)?)`)
	actualRuntimeRe  = regexp.MustCompile(`(?i)actual runtime\s*:\s*(\d+(?:\.\d+)?)\s*s?`)
	totalRuntimeRe   = regexp.MustCompile(`(?i)total runtime\s*:\s*(\d+(?:\.\d+)?)\s*(?:seconds|s)?`)
	averageRuntimeRe = regexp.MustCompile(`(?i)average runtime\s*:\s*(\d+(?:\.\d+)?)`)

	// Path: [<indices>], one per cluster in quantum solution files.
	solutionPathRe = regexp.MustCompile(`\bPath:\s*\[([^\]\n]*)\]`)

	// Keywords are case-insensitive; the status token itself must be UPPER_SNAKE_CASE.
	statusRe    = regexp.MustCompile(`(?i:status)\s*:\s*([A-Z][A-Z0-9_]*)\b`)
	objectiveRe = regexp.MustCompile(`(?i)objective value\s*:\s*(-?\d+(?:\.\d+)?)`)
	usedEdgesRe = regexp.MustCompile(`(?i)used edges\s*:\s*(\d+)`)
)

// Interpret extracts routes, totals and a key/value summary from one block of
// solver console output.
//
// It is a pure function and never fails: every extraction step degrades
// independently to "absent". Empty or unrecognisable input yields no routes,
// an empty summary and nil totals.
func Interpret(stdout string) domain.Interpretation {
	out := domain.Interpretation{Routes: []domain.ParsedRoute{}}
	if stdout == "" {
		return out
	}

	out.Routes = extractRoutes(stdout)
	out.Totals = extractTotals(stdout)

	if v, ok := firstGroup(statusRe, stdout); ok {
		out.Summary.Set(SummaryStatus, v)
	}
	if v, ok := firstGroup(objectiveRe, stdout); ok {
		out.Summary.Set(SummaryObjective, v)
	}
	if v, ok := firstGroup(usedEdgesRe, stdout); ok {
		out.Summary.Set(SummaryUsedEdges, v)
	}
	// Totals are duplicated into the summary for generic key/value display.
	if out.Totals.Distance != nil {
		out.Summary.Set(SummaryTotalDistance, *out.Totals.Distance)
	}
	if out.Totals.TimeSeconds != nil {
		out.Summary.Set(SummaryTotalRuntime, *out.Totals.TimeSeconds)
	}
	if v, ok := firstGroup(averageRuntimeRe, stdout); ok {
		out.Summary.Set(SummaryAverageRuntime, v)
	}

	return out
}

// InterpretRun interprets output produced by a solver of the given kind.
// Quantum solvers report each cluster as a "Path: [...]" block instead of
// "Route n:" lines; when no route lines are present those blocks become
// routes numbered by order of appearance.
func InterpretRun(kind domain.SolverKind, stdout string) domain.Interpretation {
	out := Interpret(stdout)
	if kind == domain.SolverQuantum && len(out.Routes) == 0 {
		out.Routes = extractSolutionPaths(stdout)
	}
	return out
}

func extractRoutes(text string) []domain.ParsedRoute {
	matches := routeLineRe.FindAllStringSubmatch(text, -1)
	routes := make([]domain.ParsedRoute, 0, len(matches))

	for _, m := range matches {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			// Ordinal overflowed int; fall back to its position in the output.
			id = len(routes) + 1
		}

		indices, display := normalizeIndexList(m[2])
		routes = append(routes, domain.ParsedRoute{
			ID:          id,
			Label:       routeLabel(id),
			NodeIndices: indices,
			PathText:    strings.Join(display, pathSeparator),
		})
	}

	return routes
}

func extractSolutionPaths(text string) []domain.ParsedRoute {
	matches := solutionPathRe.FindAllStringSubmatch(text, -1)
	routes := make([]domain.ParsedRoute, 0, len(matches))

	for i, m := range matches {
		indices, display := normalizeIndexList(m[1])
		routes = append(routes, domain.ParsedRoute{
			ID:          i + 1,
			Label:       routeLabel(i + 1),
			NodeIndices: indices,
			PathText:    strings.Join(display, pathSeparator),
		})
	}

	return routes
}

func routeLabel(id int) string {
	return fmt.Sprintf("Truck #%d", id)
}

// normalizeIndexList applies the depot-sentinel rewrite (0 -> 1) to every
// token without reordering. Tokens that are not integers cannot be stored as
// indices; they are left out of the index list but passed through verbatim in
// the display tokens.
func normalizeIndexList(list string) ([]int, []string) {
	parts := strings.Split(list, ",")
	indices := make([]int, 0, len(parts))
	display := make([]string, 0, len(parts))

	for _, p := range parts {
		tok := strings.TrimSpace(p)
		if tok == "" {
			continue
		}

		n, err := strconv.Atoi(tok)
		if err != nil {
			display = append(display, tok)
			continue
		}
		if n == 0 {
			n = depotIndex
		}
		indices = append(indices, n)
		display = append(display, strconv.Itoa(n))
	}

	return indices, display
}

func extractTotals(text string) domain.SolverTotals {
	var totals domain.SolverTotals

	if v, ok := firstGroup(totalDistanceRe, text); ok {
		totals.Distance = &v
	}

	if v, ok := firstGroup(actualRuntimeRe, text); ok {
		totals.TimeSeconds = &v
	} else if v, ok := firstGroup(totalRuntimeRe, text); ok {
		totals.TimeSeconds = &v
	}

	return totals
}

func firstGroup(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
