package ports

import (
	"context"
	"errors"

	"solver-route-service/internal/domain"
)

var (
	ErrSolverTimeout  = errors.New("solver timed out")
	ErrSolverNotFound = errors.New("solver not found")
)

// Console output captured from one solver invocation.
type SolverOutput struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// Contract for running an external solver against a problem file.
type SolverRunner interface {
	// Run the solver of the given kind and return its captured console output.
	Run(ctx context.Context, kind domain.SolverKind, problemPath string) (SolverOutput, error)
}
