package cdr

import (
	"fmt"

	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

// TravelDetector checks travel feasibility between consecutive
// geocoordinate-bearing call events. Implied speed above the ceiling is a
// direct device cloning / spoofing signal and floors the risk level at HIGH
// through the scoring overrides.
type TravelDetector struct{}

func (TravelDetector) Name() string { return "cdr.travel" }

func (TravelDetector) Detect(identity string, streams *record.Streams, cfg *config.Config) ([]*finding.Finding, error) {
	var findings []*finding.Finding

	// Events without coordinates are skipped, not errors.
	var prev *record.CallEvent
	for i := range streams.Calls {
		call := &streams.Calls[i]
		if call.Location == nil {
			continue
		}
		if prev == nil {
			prev = call
			continue
		}

		distance := prev.Location.DistanceKm(*call.Location)
		elapsed := call.Timestamp.Sub(prev.Timestamp).Hours()
		speed := record.SpeedKmh(distance, elapsed)

		if speed > cfg.CDR.MaxTravelSpeedKmh {
			findings = append(findings, finding.NewWindow(identity, finding.CategoryLocation,
				finding.PatternImpossibleTravel, finding.SeverityCritical, 10,
				prev.Timestamp, call.Timestamp).
				WithDescription(fmt.Sprintf("%.0f km in %.1f min implies %.0f km/h",
					distance, elapsed*60, speed)).
				WithEvidence("distance_km", distance).
				WithEvidence("speed_kmh", speed).
				WithEvidence("from_cell", prev.CellID).
				WithEvidence("to_cell", call.CellID))
		}
		prev = call
	}

	return findings, nil
}
