package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"solver-route-service/internal/platform/obs"
	"solver-route-service/internal/ports"
)

// SQLOutputCache is a Postgres-backed cache for solver output.
type SQLOutputCache struct {
	DB  *sql.DB
	now func() time.Time
}

func NewSQLOutputCache(db *sql.DB) *SQLOutputCache {
	return &SQLOutputCache{DB: db, now: time.Now}
}

func (s *SQLOutputCache) Get(ctx context.Context, key string) (_ ports.SolverOutput, _ bool, err error) {
	defer obs.Time(ctx, "output.cache.sql.Get")(&err)

	if s.DB == nil {
		return ports.SolverOutput{}, false, errors.New("output cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return ports.SolverOutput{}, false, errors.New("get output cache: key must not be empty")
	}

	var out ports.SolverOutput
	var exp int64
	err = s.DB.QueryRowContext(ctx, `
	SELECT stdout, stderr, expires_at
	FROM output_cache
	WHERE cache_key = $1;
	`, key).Scan(&out.Stdout, &out.Stderr, &exp)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.SolverOutput{}, false, nil
	}
	if err != nil {
		return ports.SolverOutput{}, false, fmt.Errorf("get output cache key=%q: %w", key, err)
	}

	if expired(exp, s.now()) {
		return ports.SolverOutput{}, false, nil
	}

	return out, true, nil
}

func (s *SQLOutputCache) Put(ctx context.Context, key string, out ports.SolverOutput, ttl time.Duration) (err error) {
	defer obs.Time(ctx, "output.cache.sql.Put")(&err)

	if s.DB == nil {
		return errors.New("output cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert output cache: key must not be empty")
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO output_cache (cache_key, stdout, stderr, expires_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (cache_key) DO UPDATE
	SET stdout = EXCLUDED.stdout,
		stderr = EXCLUDED.stderr,
		expires_at = EXCLUDED.expires_at;
	`, key, out.Stdout, out.Stderr, expiresAt(s.now(), ttl))
	if err != nil {
		return fmt.Errorf("insert output cache key=%q: %w", key, err)
	}

	return nil
}
