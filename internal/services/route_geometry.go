package services

import (
	"math"

	"solver-route-service/internal/domain"
)

// DefaultArrowColor is used when a route carries no display colour.
const DefaultArrowColor = "#fff"

// Two arrowheads per segment, at these fractions of its length.
var arrowFractions = [...]float64{0.6, 0.85}

// BuildGeometry resolves a route's 1-based node indices against the location
// table and places directional arrows along every segment.
//
// Indices outside [1, len(locations)] are dropped, so the coordinate path may
// be shorter than the index list. Interpolation is planar; the bearing is the
// initial great-circle bearing, computed once per segment.
func BuildGeometry(route domain.ParsedRoute, locations []domain.Location) domain.RouteGeometry {
	coords := make([]domain.Coordinates, 0, len(route.NodeIndices))
	for _, idx := range route.NodeIndices {
		if idx < 1 || idx > len(locations) {
			continue
		}
		coords = append(coords, locations[idx-1].Coordinates())
	}

	color := route.Color
	if color == "" {
		color = DefaultArrowColor
	}

	segments := len(coords) - 1
	if segments < 0 {
		segments = 0
	}

	arrows := make([]domain.Arrow, 0, segments*len(arrowFractions))
	for i := 0; i < segments; i++ {
		a, b := coords[i], coords[i+1]
		heading := Bearing(a, b)
		for _, t := range arrowFractions {
			arrows = append(arrows, domain.Arrow{
				Position:       Interpolate(a, b, t),
				BearingDegrees: heading,
				Color:          color,
			})
		}
	}

	return domain.RouteGeometry{
		RouteID:     route.ID,
		Coordinates: coords,
		Arrows:      arrows,
	}
}

// BuildAllGeometry builds geometry for every route against one location table.
func BuildAllGeometry(routes []domain.ParsedRoute, locations []domain.Location) []domain.RouteGeometry {
	out := make([]domain.RouteGeometry, 0, len(routes))
	for _, r := range routes {
		out = append(out, BuildGeometry(r, locations))
	}
	return out
}

// Interpolate returns a + (b - a) * t, independently per axis.
func Interpolate(a, b domain.Coordinates, t float64) domain.Coordinates {
	return domain.Coordinates{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lon: a.Lon + (b.Lon-a.Lon)*t,
	}
}

// Bearing returns the initial compass bearing from a to b in degrees,
// normalised into [0, 360). 0 is north, 90 is east.
func Bearing(a, b domain.Coordinates) float64 {
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	dLon := toRad(b.Lon - a.Lon)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return math.Mod(toDeg(math.Atan2(y, x))+360, 360)
}

func toRad(d float64) float64 { return d * math.Pi / 180 }
func toDeg(r float64) float64 { return r * 180 / math.Pi }
