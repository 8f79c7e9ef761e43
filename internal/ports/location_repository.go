package ports

import (
	"context"

	"solver-route-service/internal/domain"
)

// Port: the stored location table, kept in problem city order.
type LocationRepository interface {
	ListLocations(ctx context.Context) ([]domain.Location, error)
	// Replace the whole table; positions follow slice order starting at 1.
	ReplaceLocations(ctx context.Context, locations []domain.Location) error
}
