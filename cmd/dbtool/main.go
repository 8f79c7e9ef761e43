package main

import (
	"context"
	"database/sql"
	"log"

	"solver-route-service/internal/adapters/repositories"
	"solver-route-service/internal/config"
	"solver-route-service/internal/platform/db"
	"solver-route-service/internal/ports"
)

// dbtool initializes the schema and seeds the location table, against
// Postgres when DATABASE_URL is set and the SQLite file at DB_PATH otherwise.
func main() {
	config.Load()

	var (
		conn *sql.DB
		repo ports.LocationRepository
		err  error
	)
	if databaseURL := config.Get("DATABASE_URL", ""); databaseURL != "" {
		conn, err = db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		repo = repositories.NewSQLLocationRepository(conn)
	} else {
		conn, err = db.OpenSQLite(config.Get("DB_PATH", "data/app.db"))
		if err != nil {
			log.Fatal(err)
		}
		repo = repositories.NewSqliteLocationRepository(conn)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/locations.json")
	initAndSeed(context.Background(), conn, repo, seedPath)
}

func initAndSeed(ctx context.Context, conn *sql.DB, repo ports.LocationRepository, seedPath string) {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	if err := repositories.SeedFromJSON(ctx, repo, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
