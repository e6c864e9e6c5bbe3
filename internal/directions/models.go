package directions

import "strings"

// MaxStops is the maximum number of intermediate stops the engine accepts
// in a single directions request.
const MaxStops = 25

// TravelMode selects how the engine routes between stops.
type TravelMode string

const (
	ModeDriving   TravelMode = "driving"
	ModeWalking   TravelMode = "walking"
	ModeBicycling TravelMode = "bicycling"
	ModeTransit   TravelMode = "transit"
)

// UnitSystem selects how distances are formatted for display.
type UnitSystem string

const (
	UnitsMetric   UnitSystem = "metric"
	UnitsImperial UnitSystem = "imperial"
)

// Coordinate represents a geographic point
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RouteRequest describes a multi-stop route calculation. Location fields are
// free-text addresses resolved by the engine; the display-name fields carry
// the user-facing labels (business names, favorites) shown instead of the
// engine's resolved addresses.
type RouteRequest struct {
	Origin            string     `json:"origin"`
	Destination       string     `json:"destination"`
	Stops             []string   `json:"stops,omitempty"`
	OriginName        string     `json:"origin_name,omitempty"`
	DestinationName   string     `json:"destination_name,omitempty"`
	StopNames         []string   `json:"stop_names,omitempty"`
	Mode              TravelMode `json:"mode,omitempty"`
	Units             UnitSystem `json:"units,omitempty"`
	OptimizeWaypoints bool       `json:"optimize_waypoints,omitempty"`
}

// Validate checks the request against the engine's constraints. It returns a
// ValidationError before any network traffic happens.
func (r *RouteRequest) Validate() error {
	if strings.TrimSpace(r.Origin) == "" {
		return &ValidationError{Reason: "origin must not be empty"}
	}
	if strings.TrimSpace(r.Destination) == "" {
		return &ValidationError{Reason: "destination must not be empty"}
	}
	if len(r.Stops) > MaxStops {
		return &ValidationError{Reason: "too many stops: maximum is 25"}
	}
	for _, stop := range r.Stops {
		if strings.TrimSpace(stop) == "" {
			return &ValidationError{Reason: "stops must not be empty"}
		}
	}
	return nil
}

// EngineLeg is one engine-computed segment between two consecutive stops.
// Immutable once parsed from the engine response.
type EngineLeg struct {
	StartAddress    string     `json:"start_address"`
	EndAddress      string     `json:"end_address"`
	StartLocation   Coordinate `json:"start_location"`
	EndLocation     Coordinate `json:"end_location"`
	DistanceMeters  int        `json:"distance_meters"`
	DurationSeconds int        `json:"duration_seconds"`
	// DurationInTraffic is the traffic-adjusted duration in seconds,
	// zero when the engine did not provide one.
	DurationInTraffic int `json:"duration_in_traffic_seconds,omitempty"`
}

// EngineRoute is the parsed form of one engine route.
type EngineRoute struct {
	Legs            []EngineLeg `json:"legs"`
	EncodedPolyline string      `json:"encoded_polyline,omitempty"`
	// WaypointOrder is the permutation the engine applied to the
	// intermediate stops; present only when optimization was requested
	// and the engine reordered them.
	WaypointOrder []int `json:"waypoint_order,omitempty"`
}
