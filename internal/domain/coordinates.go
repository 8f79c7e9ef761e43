package domain

// Immutable geographic coordinates (latitude, longitude).
// Serialised as {"lat": ..., "lng": ...} for map clients.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}
