package ports

import (
	"context"
	"time"
)

// Optional cache of solver output keyed by problem content.
type OutputCache interface {
	Get(ctx context.Context, key string) (SolverOutput, bool, error)
	Put(ctx context.Context, key string, out SolverOutput, ttl time.Duration) error
}
