package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/routepilot/routepilot/internal/directions"
)

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		name     string
		meters   int
		units    directions.UnitSystem
		expected string
	}{
		{"imperial short distance in feet", 100, directions.UnitsImperial, "328 ft"},
		{"imperial below a tenth of a mile", 150, directions.UnitsImperial, "492 ft"},
		{"imperial miles with one decimal", 3000, directions.UnitsImperial, "1.9 mi"},
		{"imperial exactly one mile", 1610, directions.UnitsImperial, "1.0 mi"},
		{"metric short distance in meters", 400, directions.UnitsMetric, "400 m"},
		{"metric kilometers with one decimal", 3000, directions.UnitsMetric, "3.0 km"},
		{"metric just under a kilometer", 999, directions.UnitsMetric, "999 m"},
		{"metric long distance", 15500, directions.UnitsMetric, "15.5 km"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDistance(tt.meters, tt.units))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		seconds  int
		expected string
	}{
		{"minutes only", 300, "5m"},
		{"under a minute", 45, "0m"},
		{"just under an hour", 3540, "59m"},
		{"exactly one hour", 3600, "1h 0m"},
		{"hours and minutes", 5400, "1h 30m"},
		{"multiple hours", 7980, "2h 13m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.seconds))
		})
	}
}
