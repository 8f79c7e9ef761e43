package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"solver-route-service/internal/domain"
	"solver-route-service/internal/platform/obs"
)

// SQLite-backed implementation of the RunRepository port.
type SqliteRunRepository struct{ DB *sql.DB }

func NewSqliteRunRepository(db *sql.DB) *SqliteRunRepository {
	return &SqliteRunRepository{DB: db}
}

func (s *SqliteRunRepository) Create(ctx context.Context, run *domain.Run) (err error) {
	defer obs.Time(ctx, "runs.sqlite.Create")(&err)

	if s.DB == nil {
		return errors.New("sqlite run repository: DB is nil")
	}

	args, err := runArgs(run)
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}

	query := `INSERT INTO solver_runs (` + runColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create run %s: %w", run.ID, err)
	}

	return nil
}

func (s *SqliteRunRepository) Update(ctx context.Context, run *domain.Run) (err error) {
	defer obs.Time(ctx, "runs.sqlite.Update")(&err)

	if s.DB == nil {
		return errors.New("sqlite run repository: DB is nil")
	}

	args, err := runArgs(run)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}

	query := `
	UPDATE solver_runs
	SET kind = ?,
		status = ?,
		problem_name = ?,
		problem_json = ?,
		stdout = ?,
		stderr = ?,
		message = ?,
		created_at = ?,
		updated_at = ?
	WHERE run_id = ?;
	`
	// run_id moves from the first column to the WHERE clause.
	updateArgs := append(append([]any(nil), args[1:]...), args[0])
	res, err := s.DB.ExecContext(ctx, query, updateArgs...)
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

func (s *SqliteRunRepository) Get(ctx context.Context, id string) (*domain.Run, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite run repository: DB is nil")
	}

	row := s.DB.QueryRowContext(ctx, `SELECT `+runColumns+` FROM solver_runs WHERE run_id = ?;`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %s: %w", id, domain.ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}

	return run, nil
}

func (s *SqliteRunRepository) List(ctx context.Context, limit int) ([]*domain.Run, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite run repository: DB is nil")
	}

	query := `
	SELECT ` + runColumns + `
	FROM solver_runs
	ORDER BY created_at DESC, run_id DESC
	LIMIT ?;
	`
	rows, err := s.DB.QueryContext(ctx, query, clampLimit(limit))
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
