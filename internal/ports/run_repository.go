package ports

import (
	"context"

	"solver-route-service/internal/domain"
)

// Port: a boundary for persisting solver runs.
type RunRepository interface {
	Create(ctx context.Context, run *domain.Run) error
	// Update overwrites a stored run; a missing run yields domain.ErrRunNotFound.
	Update(ctx context.Context, run *domain.Run) error
	// Get returns domain.ErrRunNotFound when no run has the given id.
	Get(ctx context.Context, id string) (*domain.Run, error)
	// List returns up to limit runs, newest first.
	List(ctx context.Context, limit int) ([]*domain.Run, error)
}
