package routes

import (
	"github.com/routepilot/routepilot/internal/directions"
)

// DecodePolyline decodes an encoded polyline string into coordinates using
// the standard 5-decimal-place precision. Truncated input yields the points
// decoded so far.
func DecodePolyline(encoded string) []directions.Coordinate {
	var points []directions.Coordinate
	index, lat, lng := 0, 0, 0

	for index < len(encoded) {
		var deltaLat, deltaLng int
		var ok bool

		deltaLat, index, ok = decodeChunk(encoded, index)
		if !ok {
			break
		}
		lat += deltaLat

		deltaLng, index, ok = decodeChunk(encoded, index)
		if !ok {
			break
		}
		lng += deltaLng

		points = append(points, directions.Coordinate{
			Latitude:  float64(lat) / 1e5,
			Longitude: float64(lng) / 1e5,
		})
	}

	return points
}

// decodeChunk reads one zigzag-encoded varint starting at index.
func decodeChunk(encoded string, index int) (value, next int, ok bool) {
	result, shift := 0, 0
	for {
		if index >= len(encoded) {
			return 0, index, false
		}
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	delta := result >> 1
	if result&1 != 0 {
		delta = ^delta
	}
	return delta, index, true
}
