package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"solver-route-service/internal/api/dto"
	"solver-route-service/internal/domain"
	"solver-route-service/internal/platform/obs"
	"solver-route-service/internal/ports"
	"solver-route-service/internal/services"
)

const defaultRunListLimit = 20

// RunHandler submits problems to the solvers and serves recorded runs.
type RunHandler struct {
	Service *services.RunService
}

func (h *RunHandler) RunClassical(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, domain.SolverClassical)
}

func (h *RunHandler) RunQuantum(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, domain.SolverQuantum)
}

func (h *RunHandler) run(w http.ResponseWriter, r *http.Request, kind domain.SolverKind) {
	var req dto.RunSolverRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Service.RunSolver(r.Context(), services.RunSolverRequest{
		Kind:    kind,
		Problem: req.Problem(),
	})
	if err != nil {
		log.Printf("run solver failed: req_id=%s kind=%s err=%v", obs.RequestID(r.Context()), kind, err)

		switch {
		case errors.Is(err, domain.ErrInvalidProblem):
			writeError(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, ports.ErrSolverTimeout) && res != nil:
			writeJSON(w, r, http.StatusGatewayTimeout, runResponse(res))
		case errors.Is(err, ports.ErrSolverTimeout):
			writeError(w, r, http.StatusGatewayTimeout, services.MessageSolverTimedOut)
		case errors.Is(err, ports.ErrSolverNotFound) && res == nil:
			writeError(w, r, http.StatusNotFound, "solver not found")
		case res == nil:
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		default:
			writeJSON(w, r, http.StatusInternalServerError, runResponse(res))
		}
		return
	}

	writeJSON(w, r, http.StatusOK, runResponse(res))
}

func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := h.Service.ListRuns(r.Context(), limit)
	if err != nil {
		log.Printf("list runs failed: req_id=%s err=%v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRunsResponse{Runs: make([]dto.RunListItem, 0, len(runs))}
	for _, run := range runs {
		res.Runs = append(res.Runs, dto.RunListItem{
			RunID:       run.ID,
			Kind:        run.Kind,
			Status:      run.Status,
			ProblemName: run.ProblemName,
			Message:     run.Message,
			CreatedAt:   run.CreatedAt,
			UpdatedAt:   run.UpdatedAt,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	res, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, runResponse(res))
}

// GeoJSON exports a run's routes and arrows as a FeatureCollection.
func (h *RunHandler) GeoJSON(w http.ResponseWriter, r *http.Request) {
	res, ok := h.load(w, r)
	if !ok {
		return
	}

	fc := services.RouteFeatureCollection(res.Interpretation.Routes, res.Geometry)

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(fc); err != nil {
		log.Printf("encode failed: req_id=%s method=%s path=%s err=%v", obs.RequestID(r.Context()), r.Method, r.URL.Path, err)
	}
}

func (h *RunHandler) load(w http.ResponseWriter, r *http.Request) (*services.RunResult, bool) {
	id := chi.URLParam(r, "id")

	res, err := h.Service.LoadRunResult(r.Context(), id)
	if errors.Is(err, domain.ErrRunNotFound) {
		writeError(w, r, http.StatusNotFound, "run not found")
		return nil, false
	}
	if err != nil {
		log.Printf("load run failed: req_id=%s run=%s err=%v", obs.RequestID(r.Context()), id, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return nil, false
	}

	return res, true
}

func runResponse(res *services.RunResult) dto.RunSolverResponse {
	run := res.Run
	interp := res.Interpretation

	out := dto.RunSolverResponse{
		OK:           run.Status == domain.RunSucceeded,
		Message:      run.Message,
		RunID:        run.ID,
		Status:       run.Status,
		ProblemFile:  res.ProblemFile,
		SolverStdout: run.Stdout,
		SolverStderr: run.Stderr,
		Cached:       res.Cached,
		Routes:       nonNilRoutes(interp.Routes),
		Summary:      interp.Summary,
		Totals:       interp.Totals,
		Display:      displayTotals(interp.Totals),
		Geometry:     res.Geometry,
	}
	if out.Geometry == nil {
		out.Geometry = []domain.RouteGeometry{}
	}
	if res.HasBounds {
		out.Bounds = &dto.BoundsResponse{
			MinLat: res.Bounds.Min.Lat(),
			MinLng: res.Bounds.Min.Lon(),
			MaxLat: res.Bounds.Max.Lat(),
			MaxLng: res.Bounds.Max.Lon(),
		}
	}
	return out
}
