package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LocationID is a stable location identifier. Clients send it either as a
// JSON number or a JSON string; both decode to the same textual form.
type LocationID string

func (id *LocationID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("location id: %w", err)
		}
		*id = LocationID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("location id: %w", err)
	}
	*id = LocationID(n.String())
	return nil
}

// Represents a named place on the map.
// Locations are supplied externally and referenced by routes through their
// 1-based position in the problem's city order, never by ID.
type Location struct {
	ID     LocationID `json:"id"`
	Name   string     `json:"name"`
	Lat    float64    `json:"lat"`
	Lng    float64    `json:"lng"`
	Demand *int       `json:"demand,omitempty"`
}

func (l Location) Coordinates() Coordinates {
	return Coordinates{Lat: l.Lat, Lon: l.Lng}
}

// DemandOrZero returns the location's own demand, or 0 when it has none.
func (l Location) DemandOrZero() int {
	if l.Demand == nil {
		return 0
	}
	return *l.Demand
}
