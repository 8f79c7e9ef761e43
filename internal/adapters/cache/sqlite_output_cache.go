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

// SQLite backed cache for solver output.
// Entries past their expiry are treated as misses and overwritten on the
// next Put.
type SqliteOutputCache struct {
	DB  *sql.DB
	now func() time.Time
}

func NewSqliteOutputCache(db *sql.DB) *SqliteOutputCache {
	return &SqliteOutputCache{DB: db, now: time.Now}
}

func (s *SqliteOutputCache) Get(ctx context.Context, key string) (_ ports.SolverOutput, _ bool, err error) {
	defer obs.Time(ctx, "output.cache.sqlite.Get")(&err)

	if s.DB == nil {
		return ports.SolverOutput{}, false, errors.New("output cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return ports.SolverOutput{}, false, errors.New("get output cache: key must not be empty")
	}

	var out ports.SolverOutput
	var expiresAt int64
	err = s.DB.QueryRowContext(ctx, `
	SELECT stdout, stderr, expires_at
	FROM output_cache
	WHERE cache_key = ?;
	`, key).Scan(&out.Stdout, &out.Stderr, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.SolverOutput{}, false, nil
	}
	if err != nil {
		return ports.SolverOutput{}, false, fmt.Errorf("get output cache key=%q: %w", key, err)
	}

	if expired(expiresAt, s.now()) {
		return ports.SolverOutput{}, false, nil
	}

	return out, true, nil
}

func (s *SqliteOutputCache) Put(ctx context.Context, key string, out ports.SolverOutput, ttl time.Duration) error {
	if s.DB == nil {
		return errors.New("output cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert output cache: key must not be empty")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO output_cache (
		cache_key,
		stdout,
		stderr,
		expires_at
	)
	VALUES (?, ?, ?, ?);
	`, key, out.Stdout, out.Stderr, expiresAt(s.now(), ttl))
	if err != nil {
		return fmt.Errorf("insert output cache key=%q: %w", key, err)
	}

	return nil
}

// expiresAt returns the unix-millisecond expiry for ttl; 0 means never.
func expiresAt(now time.Time, ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return now.Add(ttl).UnixMilli()
}

func expired(expiresAt int64, now time.Time) bool {
	return expiresAt != 0 && now.UnixMilli() >= expiresAt
}
