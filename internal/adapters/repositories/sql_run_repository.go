package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"solver-route-service/internal/domain"
	"solver-route-service/internal/platform/obs"
)

// SQLRunRepository is the Postgres-backed implementation of the RunRepository port.
type SQLRunRepository struct{ DB *sql.DB }

func NewSQLRunRepository(db *sql.DB) *SQLRunRepository {
	return &SQLRunRepository{DB: db}
}

func (s *SQLRunRepository) Create(ctx context.Context, run *domain.Run) (err error) {
	defer obs.Time(ctx, "runs.sql.Create")(&err)

	if s.DB == nil {
		return errors.New("sql run repository: DB is nil")
	}

	args, err := runArgs(run)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}

	query := `INSERT INTO solver_runs (` + runColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create run %s: %w", run.ID, err)
	}

	return nil
}

func (s *SQLRunRepository) Update(ctx context.Context, run *domain.Run) (err error) {
	defer obs.Time(ctx, "runs.sql.Update")(&err)

	if s.DB == nil {
		return errors.New("sql run repository: DB is nil")
	}

	args, err := runArgs(run)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}

	query := `
	UPDATE solver_runs
	SET kind = $2,
		status = $3,
		problem_name = $4,
		problem_json = $5,
		stdout = $6,
		stderr = $7,
		message = $8,
		created_at = $9,
		updated_at = $10
	WHERE run_id = $1;
	`
	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update run %s: %w", run.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update run %s: rows affected: %w", run.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("update run %s: %w", run.ID, domain.ErrRunNotFound)
	}

	return nil
}

func (s *SQLRunRepository) Get(ctx context.Context, id string) (_ *domain.Run, err error) {
	defer obs.Time(ctx, "runs.sql.Get")(&err)

	if s.DB == nil {
		return nil, errors.New("sql run repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+runColumns+` FROM solver_runs WHERE run_id = $1;`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %s: %w", id, domain.ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}

	return run, nil
}

func (s *SQLRunRepository) List(ctx context.Context, limit int) (_ []*domain.Run, err error) {
	defer obs.Time(ctx, "runs.sql.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql run repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT `+runColumns+`
	FROM solver_runs
	ORDER BY created_at DESC, run_id DESC
	LIMIT $1;
	`, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list runs: query solver_runs table: %w", err)
	}
	defer rows.Close()

	runs := make([]*domain.Run, 0, 16)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: scan row: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}

	return runs, nil
}
