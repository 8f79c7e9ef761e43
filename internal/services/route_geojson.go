package services

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"solver-route-service/internal/domain"
)

// RouteFeatureCollection exports routes as GeoJSON: one LineString per route
// with at least two resolved coordinates, and one Point per arrow.
// Geometries and routes are matched by route ID.
func RouteFeatureCollection(routes []domain.ParsedRoute, geoms []domain.RouteGeometry) *geojson.FeatureCollection {
	byID := make(map[int]domain.ParsedRoute, len(routes))
	for _, r := range routes {
		byID[r.ID] = r
	}

	fc := geojson.NewFeatureCollection()
	for _, g := range geoms {
		if len(g.Coordinates) < 2 {
			continue
		}
		route := byID[g.RouteID]

		line := make(orb.LineString, 0, len(g.Coordinates))
		for _, c := range g.Coordinates {
			line = append(line, toPoint(c))
		}

		f := geojson.NewFeature(line)
		f.Properties["kind"] = "route"
		f.Properties["id"] = g.RouteID
		f.Properties["label"] = route.Label
		f.Properties["color"] = route.Color
		f.Properties["pathText"] = route.PathText
		fc.Append(f)

		for _, a := range g.Arrows {
			af := geojson.NewFeature(toPoint(a.Position))
			af.Properties["kind"] = "arrow"
			af.Properties["routeId"] = g.RouteID
			af.Properties["bearing"] = a.BearingDegrees
			af.Properties["color"] = a.Color
			fc.Append(af)
		}
	}

	return fc
}

// RouteBounds returns the box enclosing every location and every resolved
// route coordinate. ok is false when there is nothing to enclose.
func RouteBounds(locations []domain.Location, geoms []domain.RouteGeometry) (orb.Bound, bool) {
	var (
		b  orb.Bound
		ok bool
	)

	extend := func(c domain.Coordinates) {
		p := toPoint(c)
		if !ok {
			b = p.Bound()
			ok = true
			return
		}
		b = b.Extend(p)
	}

	for _, l := range locations {
		extend(l.Coordinates())
	}
	for _, g := range geoms {
		for _, c := range g.Coordinates {
			extend(c)
		}
	}

	return b, ok
}

func toPoint(c domain.Coordinates) orb.Point {
	return orb.Point{c.Lon, c.Lat}
}
