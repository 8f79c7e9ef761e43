package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"solver-route-service/internal/api/dto"
	"solver-route-service/internal/domain"
	"solver-route-service/internal/platform/obs"
	"solver-route-service/internal/services"
)

// Request bodies carry solver stdout, which can be large but not unbounded.
const maxBodyBytes = 8 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: req_id=%s method=%s path=%s err=%v", obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON strictly decodes a single JSON object into v, writing a 400 and
// returning false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

func displayTotals(t domain.SolverTotals) dto.DisplayTotals {
	return dto.DisplayTotals{
		Distance:    services.FormatMetric(t.Distance),
		TimeSeconds: services.FormatMetric(t.TimeSeconds),
	}
}

func nonNilRoutes(routes []domain.ParsedRoute) []domain.ParsedRoute {
	if routes == nil {
		return []domain.ParsedRoute{}
	}
	return routes
}
