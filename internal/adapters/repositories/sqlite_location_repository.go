package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"solver-route-service/internal/domain"
)

// SQLite-backed implementation of the LocationRepository port.
type SqliteLocationRepository struct{ DB *sql.DB }

func NewSqliteLocationRepository(db *sql.DB) *SqliteLocationRepository {
	return &SqliteLocationRepository{DB: db}
}

// Return all locations in problem city order.
func (s *SqliteLocationRepository) ListLocations(ctx context.Context) ([]domain.Location, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite location repository: DB is nil")
	}

	query := `
	SELECT
		location_id,
		name,
		lat,
		lng,
		demand
	FROM locations
	ORDER BY position;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list locations: query locations table: %w", err)
	}
	defer rows.Close()

	return scanLocations(rows)
}

func (s *SqliteLocationRepository) ReplaceLocations(ctx context.Context, locations []domain.Location) error {
	if s.DB == nil {
		return errors.New("sqlite location repository: DB is nil")
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
	INSERT INTO locations (
		position,
		location_id,
		name,
		lat,
		lng,
		demand
	)
	VALUES (?, ?, ?, ?, ?, ?);
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

func scanLocations(rows *sql.Rows) ([]domain.Location, error) {
	locations := make([]domain.Location, 0, 32)
	for rows.Next() {
		var (
			l      domain.Location
			id     string
			demand sql.NullInt64
		)
		if err := rows.Scan(&id, &l.Name, &l.Lat, &l.Lng, &demand); err != nil {
			return nil, fmt.Errorf("list locations: scan row: %w", err)
		}
		l.ID = domain.LocationID(id)
		if demand.Valid {
			d := int(demand.Int64)
			l.Demand = &d
		}
		locations = append(locations, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations: row iteration: %w", err)
	}

	return locations, nil
}

func nullableDemand(d *int) sql.NullInt64 {
	if d == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*d), Valid: true}
}
