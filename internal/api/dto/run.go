package dto

import (
	"time"

	"solver-route-service/internal/domain"
)

// RunSolverRequest is the problem a client submits to a solver endpoint.
type RunSolverRequest struct {
	Depots   int               `json:"depots"`
	Capacity int               `json:"capacity"`
	Fleet    int               `json:"fleet"`
	Cities   []domain.Location `json:"cities"`
	Demands  map[int]int       `json:"demands"`
}

func (r RunSolverRequest) Problem() domain.Problem {
	return domain.Problem{
		Depots:   r.Depots,
		Capacity: r.Capacity,
		Fleet:    r.Fleet,
		Cities:   r.Cities,
		Demands:  r.Demands,
	}
}

type BoundsResponse struct {
	MinLat float64 `json:"minLat"`
	MinLng float64 `json:"minLng"`
	MaxLat float64 `json:"maxLat"`
	MaxLng float64 `json:"maxLng"`
}

type RunSolverResponse struct {
	OK           bool                   `json:"ok"`
	Message      string                 `json:"message"`
	RunID        string                 `json:"runId"`
	Status       domain.RunStatus       `json:"status"`
	ProblemFile  string                 `json:"problemFile,omitempty"`
	SolverStdout string                 `json:"solverStdout"`
	SolverStderr string                 `json:"solverStderr"`
	Cached       bool                   `json:"cached"`
	Routes       []domain.ParsedRoute   `json:"routes"`
	Summary      domain.SolverSummary   `json:"summary"`
	Totals       domain.SolverTotals    `json:"totals"`
	Display      DisplayTotals          `json:"display"`
	Geometry     []domain.RouteGeometry `json:"geometry"`
	Bounds       *BoundsResponse        `json:"bounds"`
}

type RunListItem struct {
	RunID       string            `json:"runId"`
	Kind        domain.SolverKind `json:"kind"`
	Status      domain.RunStatus  `json:"status"`
	ProblemName string            `json:"problemName"`
	Message     string            `json:"message"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type ListRunsResponse struct {
	Runs []RunListItem `json:"runs"`
}
