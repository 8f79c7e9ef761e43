package dto

import "solver-route-service/internal/domain"

// Kind is optional; "quantum" also reads "Path: [...]" cluster blocks.
type InterpretRequest struct {
	Stdout string            `json:"stdout"`
	Kind   domain.SolverKind `json:"kind,omitempty"`
}

// DisplayTotals are the totals rendered for humans ("1,234.50" or "—").
type DisplayTotals struct {
	Distance    string `json:"distance"`
	TimeSeconds string `json:"timeSeconds"`
}

type InterpretResponse struct {
	Found   bool                 `json:"found"`
	Routes  []domain.ParsedRoute `json:"routes"`
	Summary domain.SolverSummary `json:"summary"`
	Totals  domain.SolverTotals  `json:"totals"`
	Display DisplayTotals        `json:"display"`
}

type GeometryRequest struct {
	Route     domain.ParsedRoute `json:"route"`
	Locations []domain.Location  `json:"locations"`
}

type AnchorPathRequest struct {
	Path string `json:"path"`
}

type AnchorPathResponse struct {
	Indices []int  `json:"indices"`
	Path    string `json:"path"`
}

type ListLocationsResponse struct {
	Locations []domain.Location `json:"locations"`
}

type ListRoutesResponse struct {
	Routes []domain.ParsedRoute `json:"routes"`
}
