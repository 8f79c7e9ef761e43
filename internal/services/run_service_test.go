package services

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	_ "modernc.org/sqlite"

	"solver-route-service/internal/adapters/cache"
	"solver-route-service/internal/adapters/repositories"
	"solver-route-service/internal/adapters/solver"
	"solver-route-service/internal/domain"
	"solver-route-service/internal/ports"
)

const runStdout = `Solving E-n4-k2 with OR-Tools
Route 1: [0, 2, 3, 0] - Distance: 6.12, Demand: 11
Route 2: [0, 4, 0] - Distance: 4.50, Demand: 9
Status: ROUTING_SUCCESS
Total distance: 10.62
Actual runtime: 0.41 seconds
`

func demand(n int) *int { return &n }

func arizona() domain.Problem {
	return domain.Problem{
		Depots:   4,
		Capacity: 30,
		Fleet:    2,
		Cities: []domain.Location{
			{ID: "1", Name: "Phoenix", Lat: 33.4484, Lng: -112.0740},
			{ID: "2", Name: "Tucson", Lat: 32.2217, Lng: -110.9265, Demand: demand(7)},
			{ID: "3", Name: "Flagstaff", Lat: 35.1981, Lng: -111.6513, Demand: demand(4)},
			{ID: "4", Name: "Yuma", Lat: 32.6927, Lng: -114.6277, Demand: demand(9)},
			{ID: "5", Name: "Unused", Lat: 0, Lng: 0},
		},
	}
}

type RunServiceSuite struct {
	suite.Suite

	ctx    context.Context
	db     *sql.DB
	runs   *repositories.SqliteRunRepository
	mapDir string
	runner *solver.MockSolverRunner
	svc    *RunService
}

func TestRunServiceSuite(t *testing.T) {
	suite.Run(t, new(RunServiceSuite))
}

func (s *RunServiceSuite) SetupTest() {
	s.ctx = context.Background()

	db, err := sql.Open("sqlite", filepath.Join(s.T().TempDir(), "app.db"))
	s.Require().NoError(err)
	s.db = db
	s.Require().NoError(repositories.InitSchema(s.ctx, db))

	s.runs = repositories.NewSqliteRunRepository(db)
	s.mapDir = filepath.Join(s.T().TempDir(), "Map_Datasets")
	s.runner = solver.NewMockSolverRunner(map[domain.SolverKind]ports.SolverOutput{
		domain.SolverClassical: {Stdout: runStdout, Stderr: "ortools: ok"},
	})
	s.svc = NewRunService(s.runner, s.runs, nil, time.Hour, s.mapDir)
}

func (s *RunServiceSuite) TearDownTest() {
	_ = s.db.Close()
}

func (s *RunServiceSuite) TestSuccessfulRun() {
	res, err := s.svc.RunSolver(s.ctx, RunSolverRequest{Kind: domain.SolverClassical, Problem: arizona()})
	s.Require().NoError(err)

	s.Equal(domain.RunSucceeded, res.Run.Status)
	s.Equal("E-n4-k2.txt", res.ProblemFile)
	s.Equal("Saved E-n4-k2.txt and ran classical solver.", res.Run.Message)
	s.Equal("ortools: ok", res.Run.Stderr)
	s.False(res.Cached)

	b, err := os.ReadFile(filepath.Join(s.mapDir, "E-n4-k2.txt"))
	s.Require().NoError(err)
	s.True(strings.HasPrefix(string(b), "NAME : E-n4-k2\n"))

	routes := res.Interpretation.Routes
	s.Require().Len(routes, 2)
	s.Equal([]int{1, 2, 3, 1}, routes[0].NodeIndices)
	s.Equal(RouteColor(0), routes[0].Color)
	s.Equal(RouteColor(1), routes[1].Color)

	s.Require().Len(res.Geometry, 2)
	s.Len(res.Geometry[0].Coordinates, 4)
	s.Len(res.Geometry[0].Arrows, 6)
	s.Equal(RouteColor(0), res.Geometry[0].Arrows[0].Color)

	s.True(res.HasBounds)
	s.InDelta(-114.6277, res.Bounds.Min.Lon(), 1e-9)
	s.InDelta(35.1981, res.Bounds.Max.Lat(), 1e-9)

	stored, err := s.runs.Get(s.ctx, res.Run.ID)
	s.Require().NoError(err)
	s.Equal(domain.RunSucceeded, stored.Status)
	s.Equal(runStdout, stored.Stdout)

	reloaded, err := s.svc.LoadRunResult(s.ctx, res.Run.ID)
	s.Require().NoError(err)
	s.Equal(res.Interpretation.Routes, reloaded.Interpretation.Routes)
	s.Equal(res.Geometry, reloaded.Geometry)
	s.Equal("E-n4-k2.txt", reloaded.ProblemFile)

	runs, err := s.svc.ListRuns(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(runs, 1)
}

func (s *RunServiceSuite) TestInvalidProblemCreatesNoRun() {
	p := arizona()
	p.Fleet = 0

	_, err := s.svc.RunSolver(s.ctx, RunSolverRequest{Kind: domain.SolverClassical, Problem: p})
	s.ErrorIs(err, domain.ErrInvalidProblem)

	_, err = s.svc.RunSolver(s.ctx, RunSolverRequest{Kind: "annealer", Problem: arizona()})
	s.ErrorIs(err, ports.ErrSolverNotFound)

	runs, err := s.svc.ListRuns(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(runs)
	s.Equal(int64(0), s.runner.Calls())
}

func (s *RunServiceSuite) TestSolverFailureRecordsFailedRun() {
	cases := []struct {
		err  error
		want string
	}{
		{ports.ErrSolverTimeout, MessageSolverTimedOut},
		{ports.ErrSolverNotFound, MessageSolverCrashed},
	}

	for _, tc := range cases {
		svc := NewRunService(solver.NewFailingSolverRunner(tc.err), s.runs, nil, time.Hour, s.mapDir)

		res, err := svc.RunSolver(s.ctx, RunSolverRequest{Kind: domain.SolverQuantum, Problem: arizona()})
		s.Require().ErrorIs(err, tc.err)
		s.Require().NotNil(res)
		s.Equal(domain.RunFailed, res.Run.Status)
		s.Equal(tc.want, res.Run.Message)

		stored, err := s.runs.Get(s.ctx, res.Run.ID)
		s.Require().NoError(err)
		s.Equal(domain.RunFailed, stored.Status)

		reloaded, err := svc.LoadRunResult(s.ctx, res.Run.ID)
		s.Require().NoError(err)
		s.Empty(reloaded.Interpretation.Routes)
		s.Empty(reloaded.Geometry)
	}
}

func (s *RunServiceSuite) TestOutputCacheSkipsSecondSolve() {
	mr := miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	svc := NewRunService(s.runner, s.runs, cache.NewRedisOutputCache(client), time.Hour, s.mapDir)

	first, err := svc.RunSolver(s.ctx, RunSolverRequest{Kind: domain.SolverClassical, Problem: arizona()})
	s.Require().NoError(err)
	s.False(first.Cached)

	second, err := svc.RunSolver(s.ctx, RunSolverRequest{Kind: domain.SolverClassical, Problem: arizona()})
	s.Require().NoError(err)
	s.True(second.Cached)
	s.NotEqual(first.Run.ID, second.Run.ID)
	s.Equal(first.Interpretation.Routes, second.Interpretation.Routes)

	s.Equal(int64(1), s.runner.Calls())
}

func (s *RunServiceSuite) TestLoadMissingRun() {
	_, err := s.svc.LoadRunResult(s.ctx, "missing")
	s.ErrorIs(err, domain.ErrRunNotFound)
}

func TestDeriveResultIgnoresUnfinishedRuns(t *testing.T) {
	run := domain.NewRun("r", domain.SolverClassical, arizona(), time.Now())
	run.Stdout = runStdout

	res := DeriveResult(run)
	require.Empty(t, res.Interpretation.Routes)
	require.Empty(t, res.Geometry)
	require.False(t, res.HasBounds)
}

func TestDeriveResultReadsQuantumSolutionPaths(t *testing.T) {
	now := time.Now()
	run := domain.NewRun("q", domain.SolverQuantum, arizona(), now)
	require.NoError(t, run.Transition(domain.RunInFlight, now))
	require.NoError(t, run.Succeed(
		"Cluster 1:\nPath: [1, 2, 3, 1]\nLength: 40.00\n\nCluster 2:\nPath: [1, 4, 1]\nLength: 30.00\n\nTotal distance: 70.00\n",
		"", "ok", now,
	))

	res := DeriveResult(run)
	require.Len(t, res.Interpretation.Routes, 2)
	require.Equal(t, "Truck #2", res.Interpretation.Routes[1].Label)
	require.Equal(t, []int{1, 4, 1}, res.Interpretation.Routes[1].NodeIndices)
	require.Len(t, res.Geometry, 2)
	require.Len(t, res.Geometry[0].Coordinates, 4)
	require.True(t, res.HasBounds)
}
