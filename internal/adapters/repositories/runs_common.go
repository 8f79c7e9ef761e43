package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"solver-route-service/internal/domain"
)

// Upper bound applied to List so a bad query parameter cannot dump the table.
const maxListLimit = 500

const runColumns = `run_id, kind, status, problem_name, problem_json, stdout, stderr, message, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.Run, error) {
	var (
		run         domain.Run
		kind        string
		status      string
		problemJSON string
		createdAt   int64
		updatedAt   int64
	)
	if err := row.Scan(
		&run.ID,
		&kind,
		&status,
		&run.ProblemName,
		&problemJSON,
		&run.Stdout,
		&run.Stderr,
		&run.Message,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(problemJSON), &run.Problem); err != nil {
		return nil, fmt.Errorf("decode problem for run %s: %w", run.ID, err)
	}

	run.Kind = domain.SolverKind(kind)
	run.Status = domain.RunStatus(status)
	run.CreatedAt = time.UnixMilli(createdAt).UTC()
	run.UpdatedAt = time.UnixMilli(updatedAt).UTC()

	return &run, nil
}

// runArgs returns the column values of run in runColumns order.
func runArgs(run *domain.Run) ([]any, error) {
	problemJSON, err := json.Marshal(run.Problem)
	if err != nil {
		return nil, fmt.Errorf("encode problem for run %s: %w", run.ID, err)
	}

	return []any{
		run.ID,
		string(run.Kind),
		string(run.Status),
		run.ProblemName,
		string(problemJSON),
		run.Stdout,
		run.Stderr,
		run.Message,
		run.CreatedAt.UnixMilli(),
		run.UpdatedAt.UnixMilli(),
	}, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
