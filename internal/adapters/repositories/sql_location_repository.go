package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"solver-route-service/internal/domain"
	"solver-route-service/internal/platform/obs"
)

// SQLLocationRepository is the Postgres-backed implementation of the
// LocationRepository port.
type SQLLocationRepository struct{ DB *sql.DB }

func NewSQLLocationRepository(db *sql.DB) *SQLLocationRepository {
	return &SQLLocationRepository{DB: db}
}

func (s *SQLLocationRepository) ListLocations(ctx context.Context) (_ []domain.Location, err error) {
	defer obs.Time(ctx, "locations.sql.ListLocations")(&err)

	if s.DB == nil {
		return nil, errors.New("sql location repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT location_id, name, lat, lng, demand
	FROM locations
	ORDER BY position;
	`)
	if err != nil {
		return nil, fmt.Errorf("list locations: query locations table: %w", err)
	}
	defer rows.Close()

	return scanLocations(rows)
}

func (s *SQLLocationRepository) ReplaceLocations(ctx context.Context, locations []domain.Location) (err error) {
	defer obs.Time(ctx, "locations.sql.ReplaceLocations")(&err)

	if s.DB == nil {
		return errors.New("sql location repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace locations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM locations;`); err != nil {
		return fmt.Errorf("replace locations: clear table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO locations (position, location_id, name, lat, lng, demand)
	VALUES ($1, $2, $3, $4, $5, $6);
	`)
	if err != nil {
		return fmt.Errorf("replace locations: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, l := range locations {
		if _, err := stmt.ExecContext(ctx, i+1, string(l.ID), l.Name, l.Lat, l.Lng, nullableDemand(l.Demand)); err != nil {
			return fmt.Errorf("replace locations: insert id=%s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace locations: commit tx: %w", err)
	}

	return nil
}
