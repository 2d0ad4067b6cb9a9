package tower

import (
	"fmt"

	"github.com/argusintel/argus/internal/domain/finding"
	"github.com/argusintel/argus/internal/domain/record"
	"github.com/argusintel/argus/internal/infrastructure/config"
)

// MovementDetector checks travel feasibility across consecutive tower
// pings. Tower data always carries coordinates, so every consecutive pair
// is eligible.
type MovementDetector struct{}

func (MovementDetector) Name() string { return "tower.movement" }

func (MovementDetector) Detect(identity string, streams *record.Streams, cfg *config.Config) ([]*finding.Finding, error) {
	pings := streams.Presence
	if len(pings) < 2 {
		return nil, nil
	}

	var findings []*finding.Finding
	for i := 1; i < len(pings); i++ {
		prev, curr := pings[i-1], pings[i]
		if prev.TowerID == curr.TowerID {
			continue
		}

		distance := prev.Location.DistanceKm(curr.Location)
		elapsed := curr.Timestamp.Sub(prev.Timestamp).Hours()
		speed := record.SpeedKmh(distance, elapsed)

		if speed > cfg.Tower.MaxTravelSpeedKmh {
			findings = append(findings, finding.NewWindow(identity, finding.CategoryMovement,
				finding.PatternImpossibleTravel, finding.SeverityCritical, 12,
				prev.Timestamp, curr.Timestamp).
				WithDescription(fmt.Sprintf("tower %s to %s: %.0f km at an implied %.0f km/h",
					prev.TowerID, curr.TowerID, distance, speed)).
				WithEvidence("from_tower", prev.TowerID).
				WithEvidence("to_tower", curr.TowerID).
				WithEvidence("distance_km", distance).
				WithEvidence("speed_kmh", speed))
		}
	}
	return findings, nil
}
