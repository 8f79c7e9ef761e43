package handlers

import (
	"net/http"

	"solver-route-service/internal/api/dto"
	"solver-route-service/internal/services"
)

// Interpret parses solver stdout posted by the client.
func Interpret(w http.ResponseWriter, r *http.Request) {
	var req dto.InterpretRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Kind != "" && !req.Kind.Valid() {
		writeError(w, r, http.StatusBadRequest, "unknown solver kind")
		return
	}

	interp := services.InterpretRun(req.Kind, req.Stdout)
	routes := services.AssignColors(interp.Routes)

	writeJSON(w, r, http.StatusOK, dto.InterpretResponse{
		Found:   interp.Found(),
		Routes:  nonNilRoutes(routes),
		Summary: interp.Summary,
		Totals:  interp.Totals,
		Display: displayTotals(interp.Totals),
	})
}

// Geometry builds the drawable geometry of one route against a location table.
func Geometry(w http.ResponseWriter, r *http.Request) {
	var req dto.GeometryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	writeJSON(w, r, http.StatusOK, services.BuildGeometry(req.Route, req.Locations))
}

// AnchorPath normalizes a hand-entered path so it starts and ends at the depot.
func AnchorPath(w http.ResponseWriter, r *http.Request) {
	var req dto.AnchorPathRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	indices := services.AnchorToDepot(services.ParsePath(req.Path))
	writeJSON(w, r, http.StatusOK, dto.AnchorPathResponse{
		Indices: indices,
		Path:    services.FormatPath(indices),
	})
}
