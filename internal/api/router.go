package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"solver-route-service/internal/api/handlers"
	"solver-route-service/internal/ports"
	"solver-route-service/internal/services"
)

type RouterDeps struct {
	Locations   ports.LocationRepository
	Runs        *services.RunService
	CORSOrigins []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	locHandler := &handlers.LocationHandler{Repo: deps.Locations}
	runHandler := &handlers.RunHandler{Service: deps.Runs}

	r.Get("/health", handlers.Health)
	r.Get("/locations", locHandler.List)
	r.Get("/routes/default", handlers.DefaultRoutes)

	r.Post("/interpret", handlers.Interpret)
	r.Post("/geometry", handlers.Geometry)
	r.Post("/path/anchor", handlers.AnchorPath)

	r.Post("/run_or_solver", runHandler.RunClassical)
	r.Post("/run_quantum_solver", runHandler.RunQuantum)

	r.Route("/runs", func(r chi.Router) {
		r.Get("/", runHandler.List)
		r.Get("/{id}", runHandler.Get)
		r.Get("/{id}/geojson", runHandler.GeoJSON)
	})

	return r
}
