package cdr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argusintel/argus/internal/domain/finding"
)

func TestTravelDetector(t *testing.T) {
	// Delhi to Mumbai (~1150 km) in 30 minutes.
	streams := callStream(
		call(at(0), locatedAt(28.6139, 77.2090, "DEL-001")),
		call(at(30*time.Minute), locatedAt(19.0760, 72.8777, "BOM-042")),
	)

	findings, err := TravelDetector{}.Detect("+919876543210", streams, testCfg())
	require.NoError(t, err)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, finding.PatternImpossibleTravel, f.Pattern)
	assert.Equal(t, finding.CategoryLocation, f.Category)
	assert.Equal(t, finding.SeverityCritical, f.Severity)
	assert.Equal(t, "DEL-001", f.Evidence["from_cell"])
	assert.Equal(t, "BOM-042", f.Evidence["to_cell"])
	assert.Greater(t, f.Evidence["speed_kmh"].(float64), 2000.0)
}

func TestTravelDetectorFeasibleSpeed(t *testing.T) {
	// The same trip over twelve hours is under 100 km/h.
	streams := callStream(
		call(at(0), locatedAt(28.6139, 77.2090, "DEL-001")),
		call(at(12*time.Hour), locatedAt(19.0760, 72.8777, "BOM-042")),
	)

	findings, err := TravelDetector{}.Detect("+919876543210", streams, testCfg())
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestTravelDetectorSkipsMissingCoordinates(t *testing.T) {
	streams := callStream(
		call(at(0), locatedAt(28.6139, 77.2090, "DEL-001")),
		call(at(minutes(10))), // no location
		call(at(30*time.Minute), locatedAt(19.0760, 72.8777, "BOM-042")),
	)

	findings, err := TravelDetector{}.Detect("+919876543210", streams, testCfg())
	require.NoError(t, err)
	assert.Len(t, findings, 1, "missing-coordinate events are skipped, not a reset")
}

func TestTravelDetectorIdenticalTimestamps(t *testing.T) {
	streams := callStream(
		call(at(0), locatedAt(28.6139, 77.2090, "DEL-001")),
		call(at(0), locatedAt(19.0760, 72.8777, "BOM-042")),
	)

	findings, err := TravelDetector{}.Detect("+919876543210", streams, testCfg())
	require.NoError(t, err)
	require.Len(t, findings, 1, "zero elapsed time over distance is infinite speed")
}
