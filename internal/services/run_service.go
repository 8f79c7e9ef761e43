package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"golang.org/x/sync/singleflight"

	"solver-route-service/internal/domain"
	"solver-route-service/internal/platform/obs"
	"solver-route-service/internal/ports"
)

// User-facing failure messages recorded on failed runs.
const (
	MessageSolverTimedOut = "Solver timed out."
	MessageSolverCrashed  = "Solver crashed."
)

type RunSolverRequest struct {
	Kind    domain.SolverKind
	Problem domain.Problem
}

// RunResult is a run plus everything derived from its stdout.
type RunResult struct {
	Run            *domain.Run
	ProblemFile    string
	Interpretation domain.Interpretation
	Geometry       []domain.RouteGeometry
	Bounds         orb.Bound
	HasBounds      bool
	Cached         bool
}

// RunService drives a problem through the solver and records the run.
//
// Identical problems submitted concurrently share one solver invocation, and
// finished output is reused from the cache when one is configured.
type RunService struct {
	runner   ports.SolverRunner
	runs     ports.RunRepository
	cache    ports.OutputCache
	cacheTTL time.Duration
	mapDir   string

	now   func() time.Time
	newID func() string
	group singleflight.Group
}

// NewRunService wires the service; cache may be nil.
func NewRunService(
	runner ports.SolverRunner,
	runs ports.RunRepository,
	cache ports.OutputCache,
	cacheTTL time.Duration,
	mapDir string,
) *RunService {
	return &RunService{
		runner:   runner,
		runs:     runs,
		cache:    cache,
		cacheTTL: cacheTTL,
		mapDir:   mapDir,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// RunSolver writes the problem file, runs the solver and interprets its
// output. On solver failure the failed run is still returned alongside the
// error so callers can report its message.
func (s *RunService) RunSolver(ctx context.Context, req RunSolverRequest) (_ *RunResult, err error) {
	defer obs.Time(ctx, "runs.RunSolver")(&err)

	if !req.Kind.Valid() {
		return nil, fmt.Errorf("run solver: %w: unknown kind %q", ports.ErrSolverNotFound, req.Kind)
	}
	if err := req.Problem.Validate(); err != nil {
		return nil, fmt.Errorf("run solver: %w", err)
	}

	run := domain.NewRun(s.newID(), req.Kind, req.Problem, s.now())
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("run solver: %w", err)
	}

	if err := run.Transition(domain.RunInFlight, s.now()); err != nil {
		return nil, fmt.Errorf("run solver: %w", err)
	}
	if err := s.runs.Update(ctx, run); err != nil {
		return nil, fmt.Errorf("run solver: %w", err)
	}

	content := RenderProblemFile(req.Problem)
	path, err := WriteProblemFile(s.mapDir, req.Problem, content)
	if err != nil {
		s.fail(ctx, run, "", MessageSolverCrashed)
		return &RunResult{Run: run}, fmt.Errorf("run solver: %w", err)
	}

	out, cached, err := s.solve(ctx, req.Kind, OutputKey(req.Kind, content), path)
	if err != nil {
		msg := MessageSolverCrashed
		if errors.Is(err, ports.ErrSolverTimeout) {
			msg = MessageSolverTimedOut
		}
		s.fail(ctx, run, out.Stderr, msg)
		return &RunResult{Run: run, ProblemFile: filepath.Base(path)}, fmt.Errorf("run solver: %w", err)
	}

	msg := fmt.Sprintf("Saved %s and ran %s solver.", filepath.Base(path), req.Kind)
	if err := run.Succeed(out.Stdout, out.Stderr, msg, s.now()); err != nil {
		return nil, fmt.Errorf("run solver: %w", err)
	}
	if err := s.runs.Update(ctx, run); err != nil {
		return nil, fmt.Errorf("run solver: %w", err)
	}

	res := DeriveResult(run)
	res.ProblemFile = filepath.Base(path)
	res.Cached = cached
	return res, nil
}

// LoadRunResult re-derives routes and geometry from a stored run's stdout.
func (s *RunService) LoadRunResult(ctx context.Context, id string) (*RunResult, error) {
	run, err := s.runs.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}

	res := DeriveResult(run)
	res.ProblemFile = run.ProblemName + ".txt"
	return res, nil
}

func (s *RunService) ListRuns(ctx context.Context, limit int) ([]*domain.Run, error) {
	runs, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// DeriveResult interprets a run's stdout against its problem's city order.
// Only succeeded runs carry routes.
func DeriveResult(run *domain.Run) *RunResult {
	res := &RunResult{Run: run, Geometry: []domain.RouteGeometry{}}
	if run.Status != domain.RunSucceeded {
		res.Interpretation = Interpret("")
		return res
	}

	interp := InterpretRun(run.Kind, run.Stdout)
	interp.Routes = AssignColors(interp.Routes)

	locations := run.Problem.Selected()
	geoms := BuildAllGeometry(interp.Routes, locations)

	res.Interpretation = interp
	res.Geometry = geoms
	res.Bounds, res.HasBounds = RouteBounds(locations, geoms)
	return res
}

// solve returns cached output when available; otherwise it runs the solver,
// collapsing concurrent calls for the same key into one.
func (s *RunService) solve(
	ctx context.Context,
	kind domain.SolverKind,
	key string,
	path string,
) (ports.SolverOutput, bool, error) {
	if s.cache != nil {
		out, found, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Printf("req_id=%s output cache get failed key=%s err=%v", obs.RequestID(ctx), key, err)
		} else if found {
			return out, true, nil
		}
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		out, err := s.runner.Run(ctx, kind, path)
		if err != nil {
			return out, err
		}

		if s.cache != nil {
			if err := s.cache.Put(ctx, key, out, s.cacheTTL); err != nil {
				log.Printf("req_id=%s output cache put failed key=%s err=%v", obs.RequestID(ctx), key, err)
			}
		}
		return out, nil
	})
	if shared {
		log.Printf("req_id=%s solver call shared key=%s", obs.RequestID(ctx), key)
	}

	out, _ := v.(ports.SolverOutput)
	return out, false, err
}

// fail records a failed run. Persistence errors are logged, not returned.
func (s *RunService) fail(ctx context.Context, run *domain.Run, stderr, msg string) {
	if err := run.Fail(stderr, msg, s.now()); err != nil {
		log.Printf("req_id=%s run=%s mark failed: %v", obs.RequestID(ctx), run.ID, err)
		return
	}
	if err := s.runs.Update(ctx, run); err != nil {
		log.Printf("req_id=%s run=%s persist failed run: %v", obs.RequestID(ctx), run.ID, err)
	}
}
