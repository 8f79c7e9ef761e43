package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"solver-route-service/internal/adapters/cache"
	"solver-route-service/internal/adapters/repositories"
	"solver-route-service/internal/adapters/solver"
	"solver-route-service/internal/api"
	"solver-route-service/internal/config"
	"solver-route-service/internal/domain"
	"solver-route-service/internal/platform/db"
	"solver-route-service/internal/ports"
	"solver-route-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres, a solver runner, an optional
// output cache) behind ports and starts the HTTP server.
func main() {
	config.Load()

	port := config.Get("PORT", "8000")
	seedPath := config.Get("SEED_PATH", "data/seeds/locations.json")
	mapDir := config.Get("MAP_DIR", "Map_Datasets")
	solverTimeout := config.GetDuration("SOLVER_TIMEOUT", 600*time.Second)
	cacheTTL := config.GetDuration("OUTPUT_CACHE_TTL", 24*time.Hour)
	origins := config.GetList("CORS_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"})

	ctx := context.Background()

	store, err := openStore(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer store.db.Close()

	// Seed demo locations on startup for local runs.
	if err := repositories.SeedFromJSON(ctx, store.locations, seedPath); err != nil {
		log.Fatal(err)
	}

	runner, err := newRunner(solverTimeout)
	if err != nil {
		log.Fatal(err)
	}

	outputCache := newOutputCache(ctx, store)

	svc := services.NewRunService(runner, store.runs, outputCache, cacheTTL, mapDir)
	router := api.NewRouter(api.RouterDeps{
		Locations:   store.locations,
		Runs:        svc,
		CORSOrigins: origins,
	})

	// Solver calls can run for the whole solver timeout.
	log.Printf("Server listening addr=:%s solver_timeout=%s", port, solverTimeout)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      solverTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

type store struct {
	db        *sql.DB
	postgres  bool
	locations ports.LocationRepository
	runs      ports.RunRepository
}

// openStore uses Postgres when DATABASE_URL is set and SQLite otherwise.
func openStore(ctx context.Context) (*store, error) {
	if url := config.Get("DATABASE_URL", ""); url != "" {
		conn, err := db.Open(url)
		if err != nil {
			return nil, err
		}
		if err := repositories.InitSchema(ctx, conn); err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		log.Println("Using postgres store")
		return &store{
			db:        conn,
			postgres:  true,
			locations: repositories.NewSQLLocationRepository(conn),
			runs:      repositories.NewSQLRunRepository(conn),
		}, nil
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	conn, err := db.OpenSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Printf("Using sqlite store path=%s", dbPath)
	return &store{
		db:        conn,
		locations: repositories.NewSqliteLocationRepository(conn),
		runs:      repositories.NewSqliteRunRepository(conn),
	}, nil
}

// newRunner prefers a remote solver service when SOLVER_URL is set, then the
// in-process heuristic when SOLVER_BACKEND=heuristic, then local commands.
func newRunner(timeout time.Duration) (ports.SolverRunner, error) {
	if url := config.Get("SOLVER_URL", ""); url != "" {
		log.Printf("Using remote solver url=%s", url)
		return solver.NewHTTPRunner(url, timeout)
	}
	if strings.EqualFold(config.Get("SOLVER_BACKEND", "exec"), "heuristic") {
		log.Println("Using in-process nearest-neighbour solver")
		return services.NewHeuristicRunner(), nil
	}

	commands := map[domain.SolverKind][]string{
		domain.SolverClassical: solver.ParseCommand(config.Get("SOLVER_CLASSICAL_CMD", "python3 classical_OR_2.py")),
		domain.SolverQuantum:   solver.ParseCommand(config.Get("SOLVER_QUANTUM_CMD", "python3 CVRP_Solver.py")),
	}
	for kind, argv := range commands {
		log.Printf("Using local solver kind=%s cmd=%q", kind, strings.Join(argv, " "))
	}
	runner, err := solver.NewExecRunner(commands, timeout)
	if err != nil {
		return nil, err
	}
	// CVRP_Solver.py writes its cluster paths to a file in the working directory.
	return runner.WithSolutionFile(domain.SolverQuantum, config.Get("SOLVER_QUANTUM_SOLUTION", "CVRP_solution.txt")), nil
}

// newOutputCache uses Redis when REDIS_ADDR is set and reachable, and the
// store's output_cache table otherwise.
func newOutputCache(ctx context.Context, s *store) ports.OutputCache {
	if addr := config.Get("REDIS_ADDR", ""); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		err := client.Ping(pingCtx).Err()
		if err == nil {
			log.Printf("Using redis output cache addr=%s", addr)
			return cache.NewRedisOutputCache(client)
		}
		log.Printf("Redis unavailable addr=%s err=%v; falling back to SQL output cache", addr, err)
		_ = client.Close()
	}

	if s.postgres {
		return cache.NewSQLOutputCache(s.db)
	}
	return cache.NewSqliteOutputCache(s.db)
}
