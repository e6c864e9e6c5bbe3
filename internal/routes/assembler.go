package routes

import (
	"github.com/routepilot/routepilot/internal/directions"
)

// Assemble merges an engine route with the originating request into a
// display-ready OptimizedRoute. It is a pure transformation: no I/O, and the
// same inputs always produce the same output.
//
// A route with N legs yields exactly N+1 stops. Coordinates come from the
// engine legs, the only source of resolved positions. Display names come
// from the request: the origin and destination labels map directly, and
// intermediate labels are applied by position in the original stop list.
// When the engine reorders optimized waypoints the legs arrive in visiting
// order but the labels are still applied positionally, so a reordered route
// can show a user label against a different resolved address.
func Assemble(engineRoute *directions.EngineRoute, req *directions.RouteRequest) *OptimizedRoute {
	units := req.Units
	if units == "" {
		units = directions.UnitsImperial
	}

	totalMeters := 0
	totalSeconds := 0
	for _, leg := range engineRoute.Legs {
		totalMeters += leg.DistanceMeters
		if leg.DurationInTraffic > 0 {
			totalSeconds += leg.DurationInTraffic
		} else {
			totalSeconds += leg.DurationSeconds
		}
	}

	route := &OptimizedRoute{
		TotalDistance:       FormatDistance(totalMeters, units),
		TotalDistanceMeters: totalMeters,
		TotalTime:           FormatDuration(totalSeconds),
		TotalSeconds:        totalSeconds,
		EncodedPolyline:     engineRoute.EncodedPolyline,
		WaypointOrder:       engineRoute.WaypointOrder,
		Stops:               assembleStops(engineRoute.Legs, req),
	}

	return route
}

func assembleStops(legs []directions.EngineLeg, req *directions.RouteRequest) []RouteStop {
	if len(legs) == 0 {
		return nil
	}

	stops := make([]RouteStop, 0, len(legs)+1)

	stops = append(stops, RouteStop{
		Address:     legs[0].StartAddress,
		DisplayName: pickName(req.OriginName, legs[0].StartAddress),
		Latitude:    legs[0].StartLocation.Latitude,
		Longitude:   legs[0].StartLocation.Longitude,
	})

	for i, leg := range legs {
		name := leg.EndAddress
		if i == len(legs)-1 {
			name = pickName(req.DestinationName, leg.EndAddress)
		} else if i < len(req.StopNames) {
			name = pickName(req.StopNames[i], leg.EndAddress)
		}

		stops = append(stops, RouteStop{
			Address:     leg.EndAddress,
			DisplayName: name,
			Latitude:    leg.EndLocation.Latitude,
			Longitude:   leg.EndLocation.Longitude,
		})
	}

	return stops
}

func pickName(preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	return fallback
}
