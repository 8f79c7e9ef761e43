package handlers

import (
	"log"
	"net/http"

	"solver-route-service/internal/api/dto"
	"solver-route-service/internal/domain"
	"solver-route-service/internal/platform/obs"
	"solver-route-service/internal/ports"
	"solver-route-service/internal/services"
)

// LocationHandler exposes the seeded location table and default routes.
type LocationHandler struct {
	Repo ports.LocationRepository
}

func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	locs, err := h.Repo.ListLocations(r.Context())
	if err != nil {
		log.Printf("list locations failed: req_id=%s err=%v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if locs == nil {
		locs = []domain.Location{}
	}

	writeJSON(w, r, http.StatusOK, dto.ListLocationsResponse{Locations: locs})
}

func DefaultRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, dto.ListRoutesResponse{Routes: services.DefaultRoutes()})
}
