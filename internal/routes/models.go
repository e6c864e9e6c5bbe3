package routes

import (
	"github.com/routepilot/routepilot/internal/directions"
)

// RouteStop is one resolved stop on an optimized route. The first stop is
// the origin, the last is the destination, and interior stops appear in
// final (possibly engine-reordered) visiting sequence.
type RouteStop struct {
	// Address is the engine-resolved address string.
	Address string `json:"address"`
	// DisplayName is the user-facing label, preferred over Address.
	DisplayName string  `json:"display_name"`
	Latitude    float64 `json:"latitude" validate:"latitude"`
	Longitude   float64 `json:"longitude" validate:"longitude"`
}

// OptimizedRoute is the assembled, display-ready form of an engine route.
type OptimizedRoute struct {
	// TotalDistance and TotalTime are formatted for display; the numeric
	// fields are retained for arithmetic and comparisons.
	TotalDistance       string `json:"total_distance"`
	TotalDistanceMeters int    `json:"total_distance_meters"`
	TotalTime           string `json:"total_time"`
	TotalSeconds        int    `json:"total_seconds"`

	Stops           []RouteStop `json:"stops" validate:"dive"`
	EncodedPolyline string      `json:"encoded_polyline,omitempty"`

	// WaypointOrder is the permutation the engine actually applied to the
	// intermediate stops, empty when no optimization took place.
	WaypointOrder []int `json:"waypoint_order,omitempty"`
}

// Path decodes the overview polyline into coordinates for map rendering.
// Returns nil when the route carries no polyline.
func (r *OptimizedRoute) Path() []directions.Coordinate {
	if r.EncodedPolyline == "" {
		return nil
	}
	return DecodePolyline(r.EncodedPolyline)
}
