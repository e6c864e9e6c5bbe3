package routes

import (
	"fmt"

	"github.com/routepilot/routepilot/internal/directions"
)

const (
	metersPerMile = 1609.344
	feetPerMeter  = 3.28084
)

// FormatDistance renders a distance in meters for display in the given unit
// system. Imperial shows feet below a tenth of a mile, otherwise miles with
// one decimal; metric shows meters below a kilometer, otherwise kilometers
// with one decimal.
func FormatDistance(meters int, units directions.UnitSystem) string {
	if units == directions.UnitsImperial {
		miles := float64(meters) / metersPerMile
		if miles < 0.1 {
			return fmt.Sprintf("%.0f ft", float64(meters)*feetPerMeter)
		}
		return fmt.Sprintf("%.1f mi", miles)
	}

	if meters < 1000 {
		return fmt.Sprintf("%d m", meters)
	}
	return fmt.Sprintf("%.1f km", float64(meters)/1000)
}

// FormatDuration renders a duration in seconds as "Hh Mm" when at least an
// hour, otherwise "Mm".
func FormatDuration(seconds int) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60

	if hours >= 1 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
