package services

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"solver-route-service/internal/domain"
)

// MissingMetric is displayed for totals the solver did not report.
const MissingMetric = "—"

var routePalette = []string{
	"#ff4d4f",
	"#40a9ff",
	"#73d13d",
	"#ffc53d",
	"#9254de",
	"#13c2c2",
	"#fa8c16",
	"#eb2f96",
}

var metricPrinter = message.NewPrinter(language.English)

// Seeded routes shown before any solver run (E-n22-k4).
var defaultRoutePaths = []string{
	"6 → 3 → 11 → 1 → 13 → 10 → 8",
	"12 → 5 → 4 → 2 → 7 → 9 → 1",
	"20 → 14 → 1 → 17",
	"15 → 18 → 22 → 21 → 19 → 16 → 1",
}

// RouteColor returns the palette colour for the i-th route (0-based).
func RouteColor(i int) string {
	if i < 0 {
		i = -i
	}
	return routePalette[i%len(routePalette)]
}

// AssignColors returns a copy of routes where every route without a colour
// gets one from the palette, by position.
func AssignColors(routes []domain.ParsedRoute) []domain.ParsedRoute {
	out := make([]domain.ParsedRoute, len(routes))
	for i, r := range routes {
		if r.Color == "" {
			r.Color = RouteColor(i)
		}
		out[i] = r
	}
	return out
}

// FormatMetric renders a solver decimal with two fraction digits and digit
// grouping, e.g. "1,234.50". Missing or non-numeric values render as MissingMetric.
func FormatMetric(v *string) string {
	if v == nil {
		return MissingMetric
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(*v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return MissingMetric
	}
	return metricPrinter.Sprintf("%.2f", f)
}

// DefaultRoutes returns the seeded routes, anchored at the depot.
func DefaultRoutes() []domain.ParsedRoute {
	out := make([]domain.ParsedRoute, 0, len(defaultRoutePaths))
	for i, p := range defaultRoutePaths {
		indices := AnchorToDepot(ParsePath(p))
		out = append(out, domain.ParsedRoute{
			ID:          i + 1,
			Label:       routeLabel(i + 1),
			NodeIndices: indices,
			PathText:    FormatPath(indices),
			Color:       RouteColor(i),
		})
	}
	return out
}
