package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"solver-route-service/internal/domain"
	"solver-route-service/internal/ports"
)

// SeedFromJSON replaces the stored locations with the array in jsonPath.
// File order becomes problem city order.
func SeedFromJSON(ctx context.Context, repo ports.LocationRepository, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed locations: read %q: %w", jsonPath, err)
	}

	var data []domain.Location
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed locations: parse json: %w", err)
	}

	rows := make([]domain.Location, 0, len(data))
	for i, item := range data {
		if strings.TrimSpace(string(item.ID)) == "" {
			return fmt.Errorf("seed locations: item at index %d: id cannot be empty", i+1)
		}

		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			return fmt.Errorf("seed locations: item id=%s: name cannot be empty", item.ID)
		}
		if item.Lat < -90 || item.Lat > 90 || item.Lng < -180 || item.Lng > 180 {
			return fmt.Errorf("seed locations: item id=%s: coordinates out of range (%f, %f)", item.ID, item.Lat, item.Lng)
		}
		rows = append(rows, item)
	}

	if err := repo.ReplaceLocations(ctx, rows); err != nil {
		return fmt.Errorf("seed locations: %w", err)
	}

	return nil
}
